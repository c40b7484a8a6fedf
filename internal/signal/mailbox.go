package signal

import (
	"sync"
	"time"

	"github.com/maelrouault/signalrelay/internal/domain"
)

// DefaultTTL bounds how long a pending signal stays deliverable. A trade
// intent older than this is stale and must never be handed to a poller.
const DefaultTTL = 5 * time.Minute

// Mailbox holds at most one pending signal per canonical symbol. A Put for
// a symbol replaces whatever was there; Take consumes the entry, so a
// signal is delivered through the poll path at most once. Expiry is lazy:
// there is no background sweeper, entries past the TTL are evicted when a
// Take observes them.
//
// A Mailbox instance is owned by its dispatcher rather than shared as a
// package-level singleton, so tests (and any future external store) get
// fresh instances.
type Mailbox struct {
	mu      sync.Mutex
	entries map[string]mailboxEntry
	ttl     time.Duration
	now     func() time.Time
}

type mailboxEntry struct {
	sig domain.Signal
	at  time.Time
}

// NewMailbox creates an empty Mailbox. A non-positive ttl falls back to
// DefaultTTL.
func NewMailbox(ttl time.Duration) *Mailbox {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Mailbox{
		entries: make(map[string]mailboxEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores sig as the pending signal for symbol, replacing any previous
// entry. Callers must not store signals addressed to domain.UnknownSymbol;
// the dispatcher enforces that before calling.
func (m *Mailbox) Put(symbol string, sig domain.Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[symbol] = mailboxEntry{sig: sig, at: m.now()}
}

// Take removes and returns the pending signal for symbol. It reports false
// when nothing is pending or the entry has outlived the TTL; an expired
// entry is evicted without being returned.
func (m *Mailbox) Take(symbol string) (domain.Signal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[symbol]
	if !ok {
		return domain.Signal{}, false
	}

	delete(m.entries, symbol)
	if m.now().Sub(e.at) >= m.ttl {
		return domain.Signal{}, false
	}
	return e.sig, true
}

// Len reports how many entries are currently held, including entries that
// have expired but have not been observed by a Take yet.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
