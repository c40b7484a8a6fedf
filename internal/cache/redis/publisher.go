package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/maelrouault/signalrelay/internal/domain"
)

// Publisher mirrors processed signal batches onto Redis Pub/Sub so
// consumers outside this process can follow the feed. It neither persists
// signals nor participates in mailbox state.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a Publisher backed by the given Client.
func NewPublisher(c *Client) *Publisher {
	return &Publisher{rdb: c.Underlying()}
}

// Publish sends a raw byte payload to a Redis Pub/Sub channel.
func (p *Publisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", channel, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.SignalPublisher = (*Publisher)(nil)
