package models

import (
	"strconv"
	"sync/atomic"
)

// ServiceID identifies a declaration. Ids handed out by declaration sources are
// positive and increase monotonically; negative ids are reserved for
// declarations the registry synthesizes itself.
type ServiceID int64

// DefaultContextID is the identity of the synthetic default context.
const DefaultContextID ServiceID = -1

func (id ServiceID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// IsSynthetic reports whether the id belongs to a registry-synthesized declaration.
func (id ServiceID) IsSynthetic() bool {
	return id < 0
}

// IDSequence assigns monotonically increasing positive ids. The zero value is
// ready to use and starts at 1.
type IDSequence struct {
	last atomic.Int64
}

// Next returns the next id.
func (s *IDSequence) Next() ServiceID {
	return ServiceID(s.last.Add(1))
}

// Observe moves the sequence past an id assigned elsewhere so later calls to
// Next never collide with it.
func (s *IDSequence) Observe(id ServiceID) {
	for {
		cur := s.last.Load()
		if int64(id) <= cur {
			return
		}
		if s.last.CompareAndSwap(cur, int64(id)) {
			return
		}
	}
}
