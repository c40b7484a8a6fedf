package signal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maelrouault/signalrelay/internal/domain"
)

// fakeBroadcaster records every batch handed to it and reports a fixed
// subscriber count.
type fakeBroadcaster struct {
	batches [][]domain.Signal
	clients int
}

func (f *fakeBroadcaster) Broadcast(signals []domain.Signal) int {
	f.batches = append(f.batches, signals)
	return f.clients
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *Mailbox, *fakeBroadcaster) {
	t.Helper()

	mailbox := NewMailbox(DefaultTTL)
	clients := &fakeBroadcaster{clients: 2}
	d := NewDispatcher(DispatcherConfig{
		Mailbox:   mailbox,
		Validator: NewValidator(discardLogger()),
		Builder:   NewBuilder(),
		Clients:   clients,
		Logger:    discardLogger(),
	})
	return d, mailbox, clients
}

func TestDispatcher_IngestUnauthorized(t *testing.T) {
	d, mailbox, clients := newTestDispatcher(t)

	_, err := d.Ingest(context.Background(), map[string]any{
		"action": "BUY", "symbol": "GOLD", "price": 100.0,
	}, false)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, clients.batches, "nothing is broadcast on auth failure")
	assert.Equal(t, 0, mailbox.Len(), "nothing is stored on auth failure")
}

func TestDispatcher_IngestStoresAndBroadcasts(t *testing.T) {
	d, mailbox, clients := newTestDispatcher(t)

	result, err := d.Ingest(context.Background(), map[string]any{
		"action": "BUY", "symbol": "XAUUSD", "price": "1950.5",
	}, true)
	require.NoError(t, err)

	require.Len(t, result.Signals, 1)
	sig := result.Signals[0]
	assert.Equal(t, domain.ActionBuy, sig.Action)
	assert.Equal(t, "GOLD", sig.Symbol, "symbol stored under its canonical alias")
	assert.Equal(t, 1950.5, sig.Price)
	assert.Equal(t, 2, result.ClientsNotified)

	require.Len(t, clients.batches, 1)
	assert.Equal(t, result.Signals, clients.batches[0])

	stored, ok := mailbox.Take("GOLD")
	require.True(t, ok)
	assert.Equal(t, sig, stored)
}

func TestDispatcher_IngestInvalidSignal(t *testing.T) {
	d, mailbox, clients := newTestDispatcher(t)

	_, err := d.Ingest(context.Background(), map[string]any{
		"action": "HOLD", "symbol": "GOLD", "price": 100.0,
	}, true)

	assert.ErrorIs(t, err, domain.ErrInvalidSignal)
	assert.Empty(t, clients.batches, "invalid signals are not broadcast")
	assert.Equal(t, 0, mailbox.Len(), "invalid signals are not stored")
}

func TestDispatcher_IngestUnknownSymbolNotStored(t *testing.T) {
	d, mailbox, clients := newTestDispatcher(t)

	// A numeric symbol passes the truthiness validation but normalizes to
	// UNKNOWN, which is not addressable.
	result, err := d.Ingest(context.Background(), map[string]any{
		"action": "BUY", "symbol": 123.0, "price": 100.0,
	}, true)
	require.NoError(t, err)

	require.Len(t, result.Signals, 1)
	assert.Equal(t, domain.UnknownSymbol, result.Signals[0].Symbol)
	assert.Equal(t, 0, mailbox.Len(), "UNKNOWN is never stored")
	assert.Len(t, clients.batches, 1, "the signal is still delivered to subscribers")
}

func TestDispatcher_PollConsumesThenWaits(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	ingested, err := d.Ingest(context.Background(), map[string]any{
		"action": "BUY", "symbol": "XAUUSD", "price": 1950.5,
	}, true)
	require.NoError(t, err)

	// The ingested XAUUSD signal lives in the GOLD slot, and polling
	// XAUUSD normalizes to the same slot.
	first, err := d.Ingest(context.Background(), map[string]any{
		"action":  "check_signal",
		"symbols": []any{"XAUUSD"},
	}, true)
	require.NoError(t, err)
	require.Len(t, first.Signals, 1)
	assert.Equal(t, ingested.Signals[0], first.Signals[0], "poll returns the exact pending signal")

	second, err := d.Ingest(context.Background(), map[string]any{
		"action":  "check_signal",
		"symbols": []any{"XAUUSD"},
	}, true)
	require.NoError(t, err)
	require.Len(t, second.Signals, 1)
	assert.Equal(t, domain.ActionWait, second.Signals[0].Action, "consumed signal is gone on the next poll")
	assert.Equal(t, "GOLD", second.Signals[0].Symbol, "placeholder carries the normalized symbol")
}

func TestDispatcher_PollPlaceholders(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	result, err := d.Ingest(context.Background(), map[string]any{
		"action":  "check_signal",
		"symbols": []any{"EURUSD", "GOLD"},
	}, true)
	require.NoError(t, err)
	require.Len(t, result.Signals, 2)

	for _, sig := range result.Signals {
		assert.Equal(t, domain.ActionWait, sig.Action)
		assert.Equal(t, 0.0, sig.Price)
		assert.Equal(t, 1.0, sig.PositionSize)
	}
	assert.Equal(t, "EURUSD", result.Signals[0].Symbol)
	assert.Equal(t, "XAUUSD", result.Signals[1].Symbol, "polled GOLD resolves to its alias")
	assert.NotEqual(t, result.Signals[0].ID, result.Signals[1].ID, "placeholders carry distinct ids")
}

func TestDispatcher_PollNonStringSymbol(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	result, err := d.Ingest(context.Background(), map[string]any{
		"action":  "check_signal",
		"symbols": []any{42.0},
	}, true)
	require.NoError(t, err, "a malformed entry does not fail the poll")
	require.Len(t, result.Signals, 1)
	assert.Equal(t, domain.UnknownSymbol, result.Signals[0].Symbol)
	assert.Equal(t, domain.ActionWait, result.Signals[0].Action)
}

func TestDispatcher_PollInvalidRequest(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	for _, payload := range []map[string]any{
		{"action": "check_signal"},
		{"action": "check_signal", "symbols": "GOLD"},
	} {
		_, err := d.Ingest(context.Background(), payload, true)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	}
}

func TestDispatcher_PollDoesNotSeeOtherSymbols(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	_, err := d.Ingest(context.Background(), map[string]any{
		"action": "SELL", "symbol": "EURUSD", "price": 1.08,
	}, true)
	require.NoError(t, err)

	result, err := d.Ingest(context.Background(), map[string]any{
		"action":  "check_signal",
		"symbols": []any{"GOLD"},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionWait, result.Signals[0].Action,
		"a pending signal for one symbol is invisible to polls for another")
}
