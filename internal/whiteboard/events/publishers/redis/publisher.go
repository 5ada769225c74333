// Package redis forwards registry events to Redis: every event is published on
// a channel for live subscribers and pushed onto a capped list for late readers.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"whiteboard/internal/whiteboard/events"
)

const (
	DefaultChannel = "whiteboard:events"
	DefaultListKey = "whiteboard:events:recent"
	DefaultListCap = 1000
)

// Publisher implements events.Sink on a go-redis client.
type Publisher struct {
	client  redis.UniversalClient
	channel string
	listKey string
	listCap int64
}

type Option func(*Publisher)

// WithChannel overrides the pub/sub channel.
func WithChannel(channel string) Option {
	return func(p *Publisher) {
		p.channel = channel
	}
}

// WithList overrides the recent-events list key and its length cap.
func WithList(key string, capacity int64) Option {
	return func(p *Publisher) {
		p.listKey = key
		p.listCap = capacity
	}
}

var _ events.Sink = (*Publisher)(nil)

// New creates a Redis sink.
func New(client redis.UniversalClient, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		channel: DefaultChannel,
		listKey: DefaultListKey,
		listCap: DefaultListCap,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Append publishes and stores the event in one pipeline round trip.
func (p *Publisher) Append(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	pipe := p.client.TxPipeline()
	pipe.Publish(ctx, p.channel, payload)
	pipe.LPush(ctx, p.listKey, payload)
	pipe.LTrim(ctx, p.listKey, 0, p.listCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish event to redis: %w", err)
	}
	return nil
}

// Recent returns up to n stored events, newest first.
func (p *Publisher) Recent(ctx context.Context, n int64) ([]events.Event, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := p.client.LRange(ctx, p.listKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read recent events: %w", err)
	}
	out := make([]events.Event, 0, len(raw))
	for _, r := range raw {
		var e events.Event
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}
