package events

import (
	"context"
	"fmt"
	"time"
)

// RedisBackend is the part of database.RedisClient used for the event feed.
type RedisBackend interface {
	Publish(ctx context.Context, channel string, message interface{}) (int64, error)
	AppendStream(ctx context.Context, stream string, maxLen int64, values map[string]interface{}) (string, error)
}

// DefaultStreamMaxLen bounds the replay stream kept next to the pub/sub channel.
const DefaultStreamMaxLen int64 = 10000

// RedisPublisher fans an event out on a pub/sub channel and appends it to a
// stream of the same name so late consumers can catch up.
type RedisPublisher struct {
	backend RedisBackend
	channel string
	maxLen  int64
}

func NewRedisPublisher(backend RedisBackend, channel string) *RedisPublisher {
	return &RedisPublisher{backend: backend, channel: channel, maxLen: DefaultStreamMaxLen}
}

func (p *RedisPublisher) Name() string { return "redis" }

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := p.backend.Publish(ctx, p.channel, payload); err != nil {
		return err
	}

	_, err = p.backend.AppendStream(ctx, p.channel, p.maxLen, map[string]interface{}{
		"id":         event.ID,
		"type":       event.Type,
		"activity":   event.Activity,
		"email":      event.Email,
		"occurredAt": event.OccurredAt.Format(time.RFC3339Nano),
	})
	return err
}
