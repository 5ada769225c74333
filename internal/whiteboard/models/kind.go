package models

import (
	"fmt"
	"strings"
)

// Kind is the closed set of service capabilities the registry can wire.
type Kind int

const (
	KindHandler Kind = iota + 1
	KindFilter
	KindResource
	KindContextAttributeListener
	KindSessionListener
	KindSessionAttributeListener
	KindRequestListener
	KindRequestAttributeListener
	KindContextLifecycleListener
)

var kindNames = map[Kind]string{
	KindHandler:                  "handler",
	KindFilter:                   "filter",
	KindResource:                 "resource",
	KindContextAttributeListener: "context-attribute-listener",
	KindSessionListener:          "session-listener",
	KindSessionAttributeListener: "session-attribute-listener",
	KindRequestListener:          "request-listener",
	KindRequestAttributeListener: "request-attribute-listener",
	KindContextLifecycleListener: "context-lifecycle-listener",
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindHandler,
		KindFilter,
		KindResource,
		KindContextAttributeListener,
		KindSessionListener,
		KindSessionAttributeListener,
		KindRequestListener,
		KindRequestAttributeListener,
		KindContextLifecycleListener,
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// IsListener reports whether k is any listener kind, lifecycle listeners included.
func (k Kind) IsListener() bool {
	return k >= KindContextAttributeListener && k <= KindContextLifecycleListener
}

// IsLifecycleListener reports whether k observes context initialization and destruction.
func (k Kind) IsLifecycleListener() bool {
	return k == KindContextLifecycleListener
}

// ParseKind resolves a kind from its string form.
func ParseKind(s string) (Kind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == want {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown service kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
