package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maelrouault/signalrelay/internal/domain"
)

func testSignal(symbol string) domain.Signal {
	return domain.Signal{
		Action:       domain.ActionBuy,
		Symbol:       symbol,
		ID:           1,
		Price:        1950.5,
		PositionSize: 1,
		Timestamp:    time.Now().UTC(),
	}
}

func TestMailbox_ConsumeOnce(t *testing.T) {
	m := NewMailbox(DefaultTTL)

	m.Put("GOLD", testSignal("GOLD"))

	got, ok := m.Take("GOLD")
	require.True(t, ok)
	assert.Equal(t, "GOLD", got.Symbol)

	_, ok = m.Take("GOLD")
	assert.False(t, ok, "second take must find nothing")
}

func TestMailbox_TakeUnknownSymbol(t *testing.T) {
	m := NewMailbox(DefaultTTL)

	_, ok := m.Take("EURUSD")
	assert.False(t, ok)
}

func TestMailbox_OverwriteKeepsLatest(t *testing.T) {
	m := NewMailbox(DefaultTTL)

	first := testSignal("GOLD")
	first.Price = 1900
	second := testSignal("GOLD")
	second.Price = 1960

	m.Put("GOLD", first)
	m.Put("GOLD", second)
	assert.Equal(t, 1, m.Len(), "one slot per symbol")

	got, ok := m.Take("GOLD")
	require.True(t, ok)
	assert.Equal(t, 1960.0, got.Price)
}

func TestMailbox_Expiry(t *testing.T) {
	m := NewMailbox(DefaultTTL)

	now := time.Now()
	m.now = func() time.Time { return now }

	m.Put("GOLD", testSignal("GOLD"))

	// Advance past the TTL; the entry must be evicted, not delivered.
	now = now.Add(DefaultTTL + time.Second)
	_, ok := m.Take("GOLD")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len(), "expired entry is evicted on observation")

	// A fresh put after expiry behaves normally.
	m.Put("GOLD", testSignal("GOLD"))
	_, ok = m.Take("GOLD")
	assert.True(t, ok)
}

func TestMailbox_FreshWithinTTL(t *testing.T) {
	m := NewMailbox(DefaultTTL)

	now := time.Now()
	m.now = func() time.Time { return now }

	m.Put("GOLD", testSignal("GOLD"))

	now = now.Add(DefaultTTL - time.Second)
	_, ok := m.Take("GOLD")
	assert.True(t, ok, "entry just inside the TTL is still deliverable")
}

func TestMailbox_KeysAreIndependent(t *testing.T) {
	m := NewMailbox(DefaultTTL)

	m.Put("GOLD", testSignal("GOLD"))
	m.Put("EURUSD", testSignal("EURUSD"))

	_, ok := m.Take("GOLD")
	require.True(t, ok)

	_, ok = m.Take("EURUSD")
	assert.True(t, ok, "consuming one symbol must not affect another")
}
