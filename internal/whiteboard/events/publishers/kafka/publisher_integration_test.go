//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"whiteboard/internal/platform/config"
	platformkafka "whiteboard/internal/platform/kafka"
	"whiteboard/internal/whiteboard/events"
	wbkafka "whiteboard/internal/whiteboard/events/publishers/kafka"
	"whiteboard/pkg/testutil/containers"
)

func TestPublisher_Redpanda(t *testing.T) {
	broker := containers.NewRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	const topic = "registry-events"
	client, err := platformkafka.New(ctx, config.KafkaConfig{Brokers: []string{broker.Broker}, Topic: topic})
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, platformkafka.EnsureTopic(ctx, client, topic, 1, 1))

	p := wbkafka.New(client, topic)
	require.NoError(t, p.Append(ctx, events.Event{Action: events.ActionFailureRecorded, DeclarationID: 9, Kind: "handler", Reason: "SHADOWED"}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.Len(t, records, 1)

	var got events.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, "9", string(records[0].Key))
	assert.Equal(t, events.ActionFailureRecorded, got.Action)
	assert.Equal(t, "SHADOWED", got.Reason)
}
