package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"whiteboard/internal/whiteboard/events"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.records = append(f.records, rs...)
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func TestPublisher_Append(t *testing.T) {
	t.Run("record is keyed by declaration id", func(t *testing.T) {
		producer := &fakeProducer{}
		p := New(producer, "registry-events")

		err := p.Append(context.Background(), events.Event{
			Action:        events.ActionServiceRegistered,
			DeclarationID: 42,
			Kind:          "handler",
			ContextID:     -1,
		})
		require.NoError(t, err)
		require.Len(t, producer.records, 1)

		r := producer.records[0]
		assert.Equal(t, "registry-events", r.Topic)
		assert.Equal(t, "42", string(r.Key))
		assert.Equal(t, "action", r.Headers[0].Key)
		assert.Equal(t, "service_registered", string(r.Headers[0].Value))

		var decoded events.Event
		require.NoError(t, json.Unmarshal(r.Value, &decoded))
		assert.Equal(t, events.ActionServiceRegistered, decoded.Action)
	})

	t.Run("produce failure is returned", func(t *testing.T) {
		p := New(&fakeProducer{err: errors.New("broker down")}, "")
		err := p.Append(context.Background(), events.Event{Action: events.ActionFailureCleared})
		assert.ErrorContains(t, err, "broker down")
	})
}
