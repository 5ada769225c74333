//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/internal/whiteboard/events"
	wbredis "whiteboard/internal/whiteboard/events/publishers/redis"
	"whiteboard/internal/whiteboard/models"
	"whiteboard/pkg/testutil/containers"
)

func TestPublisher_Redis(t *testing.T) {
	r := containers.NewRedis(t)
	ctx := context.Background()

	t.Run("subscribers receive appended events", func(t *testing.T) {
		require.NoError(t, r.FlushAll(ctx))
		p := wbredis.New(r.Client, wbredis.WithChannel("test:events"))

		sub := r.Client.Subscribe(ctx, "test:events")
		defer sub.Close()
		_, err := sub.Receive(ctx)
		require.NoError(t, err)

		require.NoError(t, p.Append(ctx, events.Event{Action: events.ActionContextActivated, DeclarationID: 7, Kind: "context"}))

		select {
		case msg := <-sub.Channel():
			assert.Contains(t, msg.Payload, `"context_activated"`)
		case <-time.After(5 * time.Second):
			t.Fatal("no message received")
		}
	})

	t.Run("recent list is capped and newest first", func(t *testing.T) {
		require.NoError(t, r.FlushAll(ctx))
		p := wbredis.New(r.Client, wbredis.WithList("test:recent", 2))

		for id := 1; id <= 3; id++ {
			require.NoError(t, p.Append(ctx, events.Event{Action: events.ActionServiceRegistered, DeclarationID: models.ServiceID(id)}))
		}

		recent, err := p.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "3", recent[0].DeclarationID.String())
		assert.Equal(t, "2", recent[1].DeclarationID.String())
	})
}
