package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/whiteboard/models"
)

func TestContextTable(t *testing.T) {
	t.Run("insert keeps groups in declaration order", func(t *testing.T) {
		table := newContextTable()
		_, pos, _ := table.insert(named(3, 0, "x"))
		assert.Equal(t, 0, pos)
		_, pos, _ = table.insert(named(4, 0, "x"))
		assert.Equal(t, 1, pos)
		_, pos, group := table.insert(named(5, 7, "x"))
		assert.Equal(t, 0, pos)
		require.Len(t, group, 3)
		assert.Equal(t, models.ServiceID(3), group[1].info.ID)
		assert.Equal(t, models.ServiceID(5), table.head("x").info.ID)
	})

	t.Run("remove deletes empty groups", func(t *testing.T) {
		table := newContextTable()
		table.insert(named(1, 0, "x"))
		table.insert(named(2, 0, "y"))

		assert.NotNil(t, table.remove(1))
		assert.Nil(t, table.remove(1))
		assert.Nil(t, table.head("x"))
		assert.Equal(t, []string{"y"}, table.names())
		assert.Equal(t, 1, table.len())
	})

	t.Run("heads are ordered across names", func(t *testing.T) {
		table := newContextTable()
		table.insert(named(1, 0, "x"))
		table.insert(named(2, 9, "y"))
		table.insert(models.DefaultContext())

		heads := table.heads()
		require.Len(t, heads, 3)
		assert.Equal(t, models.ServiceID(2), heads[0].info.ID)
		assert.Equal(t, models.ServiceID(1), heads[1].info.ID)
		assert.Equal(t, models.DefaultContextID, heads[2].info.ID)
		assert.Empty(t, table.active())
	})
}

func TestServiceTable(t *testing.T) {
	table := newServiceTable()
	x := &contextEntry{info: named(1, 0, "x"), active: true}
	y := &contextEntry{info: named(2, 0, "y"), active: true}

	listener := table.add(&models.ServiceInfo{ID: 11, Kind: models.KindContextLifecycleListener})
	handler := table.add(handlerFor(10, "x", "/h"))
	handler.wire(x)
	handler.wire(x)
	handler.wire(y)
	listener.wire(x)

	assert.Equal(t, 3, table.wirings())
	wired := table.wiredTo(x)
	require.Len(t, wired, 2)
	assert.Equal(t, models.ServiceID(10), wired[0].info.ID)

	lifecycle, others := partition(wired)
	assert.Equal(t, []*serviceEntry{listener}, lifecycle)
	assert.Equal(t, []*serviceEntry{handler}, others)

	assert.True(t, handler.unwire(x))
	assert.False(t, handler.unwire(x))
	table.remove(listener.info.ID)
	assert.Equal(t, 1, table.len())
	assert.Equal(t, 1, table.wirings())
}
