package dispatch

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/whiteboard/models"
	"whiteboard/internal/whiteboard/ports"
	"whiteboard/pkg/platform/sentinel"
)

func newDispatcher() *Dispatcher {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDispatcher_UnknownContextIsContextFailure(t *testing.T) {
	d := newDispatcher()
	shop := &models.ContextInfo{ID: 1, Name: "shop", Path: "/shop"}
	h := &models.ServiceInfo{ID: 2, Kind: models.KindHandler, Patterns: []string{"/a"}}

	err := d.RegisterHandler(context.Background(), shop, h)
	reason, ok := ports.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, models.FailureContextFailure, reason)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	assert.ErrorIs(t, d.RegisterFilter(context.Background(), shop, h), sentinel.ErrNotFound)
	assert.ErrorIs(t, d.RegisterResource(context.Background(), shop, h), sentinel.ErrNotFound)
}

func TestDispatcher_PatternOwnership(t *testing.T) {
	ctx := context.Background()
	shop := &models.ContextInfo{ID: 1, Name: "shop", Path: "/shop"}
	high := &models.ServiceInfo{ID: 10, Rank: 5, Kind: models.KindHandler, Patterns: []string{"/api/*"}}
	low := &models.ServiceInfo{ID: 11, Rank: 0, Kind: models.KindHandler, Patterns: []string{"/api/*", "/low"}}

	t.Run("lower ranked handler is shadowed", func(t *testing.T) {
		d := newDispatcher()
		require.NoError(t, d.RegisterContext(ctx, shop))
		require.NoError(t, d.RegisterHandler(ctx, shop, high))

		err := d.RegisterHandler(ctx, shop, low)
		reason, ok := ports.ReasonOf(err)
		require.True(t, ok)
		assert.Equal(t, models.FailureShadowedByOtherService, reason)

		routes, ok := d.Routes(shop.ID)
		require.True(t, ok)
		assert.Equal(t, models.ServiceID(10), routes.Handlers["/api/*"])
		_, owned := routes.Handlers["/low"]
		assert.False(t, owned)
	})

	t.Run("higher ranked handler displaces owner and hands back on unregister", func(t *testing.T) {
		d := newDispatcher()
		require.NoError(t, d.RegisterContext(ctx, shop))
		require.NoError(t, d.RegisterHandler(ctx, shop, low))
		require.NoError(t, d.RegisterHandler(ctx, shop, high))

		routes, _ := d.Routes(shop.ID)
		assert.Equal(t, models.ServiceID(10), routes.Handlers["/api/*"])
		assert.Equal(t, models.ServiceID(11), routes.Handlers["/low"])

		require.NoError(t, d.UnregisterHandler(ctx, shop, high))
		routes, _ = d.Routes(shop.ID)
		assert.Equal(t, models.ServiceID(11), routes.Handlers["/api/*"])
	})
}

func TestDispatcher_UnregisterIsNoOpWhenAbsent(t *testing.T) {
	ctx := context.Background()
	d := newDispatcher()
	shop := &models.ContextInfo{ID: 1, Name: "shop", Path: "/shop"}
	f := &models.ServiceInfo{ID: 3, Kind: models.KindFilter, Patterns: []string{"/*"}}

	assert.NoError(t, d.UnregisterFilter(ctx, shop, f))
	assert.NoError(t, d.UnregisterHandler(ctx, shop, f))
	assert.NoError(t, d.UnregisterResource(ctx, shop, f))
	assert.NoError(t, d.UnregisterContext(ctx, shop))
}

func TestDispatcher_FiltersAndResources(t *testing.T) {
	ctx := context.Background()
	d := newDispatcher()
	shop := &models.ContextInfo{ID: 1, Name: "shop", Path: "/shop"}
	f := &models.ServiceInfo{ID: 3, Kind: models.KindFilter, Patterns: []string{"/*"}}
	r := &models.ServiceInfo{ID: 4, Kind: models.KindResource, Patterns: []string{"/static/*"}, Prefix: "/www"}

	require.NoError(t, d.RegisterContext(ctx, shop))
	require.NoError(t, d.RegisterFilter(ctx, shop, f))
	require.NoError(t, d.RegisterResource(ctx, shop, r))

	routes, ok := d.Routes(shop.ID)
	require.True(t, ok)
	assert.Equal(t, []models.ServiceID{3}, routes.Filters)
	assert.Equal(t, []models.ServiceID{4}, routes.Resources)
	assert.Equal(t, []models.ServiceID{1}, d.Contexts())

	require.NoError(t, d.UnregisterFilter(ctx, shop, f))
	require.NoError(t, d.UnregisterContext(ctx, shop))
	_, ok = d.Routes(shop.ID)
	assert.False(t, ok)
	assert.Empty(t, d.Contexts())
}
