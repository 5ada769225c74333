package registry

import (
	"slices"
	"sort"

	"whiteboard/internal/whiteboard/models"
)

// serviceEntry is a service declaration and the active contexts it is
// currently registered with, in wiring order.
type serviceEntry struct {
	info     *models.ServiceInfo
	contexts []*contextEntry
}

func (e *serviceEntry) wiredTo(c *contextEntry) bool {
	return slices.Contains(e.contexts, c)
}

func (e *serviceEntry) wire(c *contextEntry) {
	if !e.wiredTo(c) {
		e.contexts = append(e.contexts, c)
	}
}

func (e *serviceEntry) unwire(c *contextEntry) bool {
	before := len(e.contexts)
	e.contexts = slices.DeleteFunc(e.contexts, func(x *contextEntry) bool { return x == c })
	return len(e.contexts) != before
}

type serviceTable struct {
	entries map[models.ServiceID]*serviceEntry
}

func newServiceTable() *serviceTable {
	return &serviceTable{entries: make(map[models.ServiceID]*serviceEntry)}
}

func (t *serviceTable) add(info *models.ServiceInfo) *serviceEntry {
	entry := &serviceEntry{info: info}
	t.entries[info.ID] = entry
	return entry
}

func (t *serviceTable) remove(id models.ServiceID) {
	delete(t.entries, id)
}

func (t *serviceTable) find(id models.ServiceID) *serviceEntry {
	return t.entries[id]
}

// sorted returns every service in declaration order.
func (t *serviceTable) sorted() []*serviceEntry {
	out := make([]*serviceEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sortServices(out)
	return out
}

// wiredTo returns the services registered with c in declaration order.
func (t *serviceTable) wiredTo(c *contextEntry) []*serviceEntry {
	var out []*serviceEntry
	for _, e := range t.entries {
		if e.wiredTo(c) {
			out = append(out, e)
		}
	}
	sortServices(out)
	return out
}

// wirings counts service/context pairs.
func (t *serviceTable) wirings() int {
	n := 0
	for _, e := range t.entries {
		n += len(e.contexts)
	}
	return n
}

// partition splits entries into context lifecycle listeners and the rest,
// preserving order.
func partition(entries []*serviceEntry) (lifecycle, others []*serviceEntry) {
	for _, e := range entries {
		if e.info.Kind.IsLifecycleListener() {
			lifecycle = append(lifecycle, e)
		} else {
			others = append(others, e)
		}
	}
	return lifecycle, others
}

func sortServices(entries []*serviceEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return models.Less(entries[i].info, entries[j].info)
	})
}
