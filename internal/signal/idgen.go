package signal

import (
	"sync"
	"time"
)

// idGenerator hands out millisecond-derived identifiers that are strictly
// increasing within the process, so signals built in the same millisecond
// still get distinct ids.
type idGenerator struct {
	mu   sync.Mutex
	last int64
}

func newIDGenerator() *idGenerator {
	return &idGenerator{}
}

func (g *idGenerator) next(now time.Time) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := now.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
