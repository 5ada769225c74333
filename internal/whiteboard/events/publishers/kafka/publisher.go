// Package kafka produces registry events to a Kafka topic, keyed by
// declaration id so every transition of one declaration lands on one partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"whiteboard/internal/whiteboard/events"
)

// Producer is the part of *kgo.Client the publisher uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Publisher implements events.Sink.
type Publisher struct {
	producer Producer
	topic    string
}

var _ events.Sink = (*Publisher)(nil)

// New creates a publisher writing to topic. An empty topic uses the client's
// default produce topic.
func New(producer Producer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// Append produces the event synchronously.
func (p *Publisher) Append(ctx context.Context, event events.Event) error {
	record, err := p.record(event)
	if err != nil {
		return err
	}
	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

func (p *Publisher) record(event events.Event) (*kgo.Record, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.DeclarationID.String()),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
		},
	}, nil
}
