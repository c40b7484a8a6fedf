package domain

import (
	"context"
	"time"
)

// RateLimiter limits request rates per key. Implementations exist for Redis
// (shared across instances) and for process memory (single instance).
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Wait(ctx context.Context, key string) error
}

// SignalPublisher fans processed signals out to interested consumers beyond
// the process boundary. Publishing is best effort; delivery to WebSocket
// subscribers never depends on it.
type SignalPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}
