package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maelrouault/signalrelay/internal/domain"
)

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder()

	sig := b.Build(map[string]any{
		"action": "buy",
		"symbol": "xauusd",
		"price":  "1950.5",
		"sl":     1940.0,
		"tp":     "1980",
	})

	assert.Equal(t, domain.ActionBuy, sig.Action)
	assert.Equal(t, "GOLD", sig.Symbol)
	assert.Equal(t, 1950.5, sig.Price)
	assert.Equal(t, 1940.0, sig.StopLoss)
	assert.Equal(t, 1980.0, sig.TakeProfit)
	assert.Equal(t, 1.0, sig.PositionSize, "position size defaults to 1")
	assert.Positive(t, sig.ID)
	assert.WithinDuration(t, time.Now().UTC(), sig.Timestamp, time.Second)
}

func TestBuilder_FieldAliases(t *testing.T) {
	b := NewBuilder()

	// Alternate key names take precedence over the primary ones.
	sig := b.Build(map[string]any{
		"Action": "SELL",
		"action": "BUY",
		"Symbol": "GOLD",
		"symbol": "EURUSD",
		"Prix":   2000.0,
		"price":  1.0,
		"SL":     "1990",
		"TP":     "2050",
		"size":   0.5,
	})

	assert.Equal(t, domain.ActionSell, sig.Action)
	assert.Equal(t, "XAUUSD", sig.Symbol)
	assert.Equal(t, 2000.0, sig.Price)
	assert.Equal(t, 1990.0, sig.StopLoss)
	assert.Equal(t, 2050.0, sig.TakeProfit)
	assert.Equal(t, 0.5, sig.PositionSize)
}

func TestBuilder_AliasFallsThroughEmptyValues(t *testing.T) {
	b := NewBuilder()

	// An alternate key holding an empty value does not shadow the primary.
	sig := b.Build(map[string]any{
		"Action": "",
		"action": "CLOSE",
		"symbol": "GOLD",
		"Prix":   0.0,
		"price":  1955.0,
	})

	assert.Equal(t, domain.ActionClose, sig.Action)
	assert.Equal(t, 1955.0, sig.Price)
}

func TestBuilder_LenientNumericParse(t *testing.T) {
	b := NewBuilder()

	sig := b.Build(map[string]any{
		"action": "BUY",
		"symbol": "GOLD",
		"price":  "not-a-number",
		"sl":     map[string]any{},
		"size":   "garbage",
	})

	assert.Equal(t, 0.0, sig.Price, "malformed price degrades to 0")
	assert.Equal(t, 0.0, sig.StopLoss)
	assert.Equal(t, 1.0, sig.PositionSize, "malformed size degrades to its default")
}

func TestBuilder_CallerSuppliedID(t *testing.T) {
	b := NewBuilder()

	sig := b.Build(map[string]any{
		"action": "BUY",
		"symbol": "GOLD",
		"price":  100.0,
		"id":     42.0,
	})
	assert.Equal(t, int64(42), sig.ID)

	// A non-numeric id is replaced by a generated one.
	sig = b.Build(map[string]any{
		"action": "BUY",
		"symbol": "GOLD",
		"price":  100.0,
		"id":     "not-numeric",
	})
	assert.Positive(t, sig.ID)
}

func TestBuilder_GeneratedIDsAreDistinct(t *testing.T) {
	b := NewBuilder()

	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		sig := b.Build(map[string]any{"action": "BUY", "symbol": "GOLD", "price": 100.0})
		require.False(t, seen[sig.ID], "duplicate id %d", sig.ID)
		seen[sig.ID] = true
	}
}

func TestBuilder_Wait(t *testing.T) {
	b := NewBuilder()

	sig := b.Wait("GOLD")

	assert.Equal(t, domain.ActionWait, sig.Action)
	assert.Equal(t, "GOLD", sig.Symbol)
	assert.Equal(t, 0.0, sig.Price)
	assert.Equal(t, 0.0, sig.StopLoss)
	assert.Equal(t, 0.0, sig.TakeProfit)
	assert.Equal(t, 1.0, sig.PositionSize)
	assert.Positive(t, sig.ID)
	assert.False(t, sig.Actionable())
}
