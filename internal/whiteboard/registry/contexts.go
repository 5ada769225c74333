package registry

import (
	"slices"
	"sort"

	"whiteboard/internal/whiteboard/models"
)

// contextEntry is a context held in its name group. active is true only for
// the group head, and only once the dispatcher accepted it.
type contextEntry struct {
	info   *models.ContextInfo
	active bool
}

// contextTable keeps each name group sorted in declaration order; the first
// element of a group is its head.
type contextTable struct {
	groups map[string][]*contextEntry
	byID   map[models.ServiceID]*contextEntry
}

func newContextTable() *contextTable {
	return &contextTable{
		groups: make(map[string][]*contextEntry),
		byID:   make(map[models.ServiceID]*contextEntry),
	}
}

// insert adds info to its group and returns the new entry, its position and
// the group after insertion.
func (t *contextTable) insert(info *models.ContextInfo) (*contextEntry, int, []*contextEntry) {
	entry := &contextEntry{info: info}
	group := t.groups[info.Name]
	pos := sort.Search(len(group), func(i int) bool {
		return models.Compare(group[i].info, info) > 0
	})
	group = slices.Insert(group, pos, entry)
	t.groups[info.Name] = group
	t.byID[info.ID] = entry
	return entry, pos, group
}

// remove drops the context with the given id. Empty groups are deleted.
func (t *contextTable) remove(id models.ServiceID) *contextEntry {
	entry, ok := t.byID[id]
	if !ok {
		return nil
	}
	delete(t.byID, id)

	name := entry.info.Name
	group := slices.DeleteFunc(t.groups[name], func(e *contextEntry) bool { return e == entry })
	if len(group) == 0 {
		delete(t.groups, name)
	} else {
		t.groups[name] = group
	}
	return entry
}

func (t *contextTable) find(id models.ServiceID) *contextEntry {
	return t.byID[id]
}

func (t *contextTable) head(name string) *contextEntry {
	group := t.groups[name]
	if len(group) == 0 {
		return nil
	}
	return group[0]
}

func (t *contextTable) isHead(entry *contextEntry) bool {
	return t.head(entry.info.Name) == entry
}

// heads returns the head of every group in declaration order.
func (t *contextTable) heads() []*contextEntry {
	out := make([]*contextEntry, 0, len(t.groups))
	for _, group := range t.groups {
		out = append(out, group[0])
	}
	sortEntries(out)
	return out
}

// active returns every active head in declaration order.
func (t *contextTable) active() []*contextEntry {
	heads := t.heads()
	out := heads[:0]
	for _, e := range heads {
		if e.active {
			out = append(out, e)
		}
	}
	return out
}

func (t *contextTable) names() []string {
	names := make([]string, 0, len(t.groups))
	for name := range t.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortEntries(entries []*contextEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return models.Less(entries[i].info, entries[j].info)
	})
}
