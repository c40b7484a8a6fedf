package signal

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(discardLogger())

	tests := []struct {
		name    string
		payload map[string]any
		wantOK  bool
	}{
		{
			name:    "valid buy",
			payload: map[string]any{"action": "BUY", "symbol": "GOLD", "price": 1950.5},
			wantOK:  true,
		},
		{
			name:    "valid lowercase action",
			payload: map[string]any{"action": "sell", "symbol": "GOLD", "price": 1950.5},
			wantOK:  true,
		},
		{
			name:    "valid close with string price",
			payload: map[string]any{"action": "CLOSE", "symbol": "EURUSD", "price": "1.08"},
			wantOK:  true,
		},
		{
			// Aliased keys are a build-time concern; validation only sees
			// the lowercase keys.
			name:    "aliased keys alone do not validate",
			payload: map[string]any{"Action": "BUY", "Symbol": "GOLD", "Prix": 1950.5},
			wantOK:  false,
		},
		{
			name: "aliased action does not override during validation",
			payload: map[string]any{
				"Action": "BUY", "action": "HOLD", "symbol": "GOLD", "price": 1950.5,
			},
			wantOK: false,
		},
		{
			name:    "missing action",
			payload: map[string]any{"symbol": "GOLD", "price": 1950.5},
			wantOK:  false,
		},
		{
			name:    "missing symbol",
			payload: map[string]any{"action": "BUY", "price": 1950.5},
			wantOK:  false,
		},
		{
			name:    "missing price",
			payload: map[string]any{"action": "BUY", "symbol": "GOLD"},
			wantOK:  false,
		},
		{
			name:    "empty symbol",
			payload: map[string]any{"action": "BUY", "symbol": "", "price": 1950.5},
			wantOK:  false,
		},
		{
			name:    "null price",
			payload: map[string]any{"action": "BUY", "symbol": "GOLD", "price": nil},
			wantOK:  false,
		},
		{
			name:    "disallowed action",
			payload: map[string]any{"action": "HOLD", "symbol": "GOLD", "price": 100.0},
			wantOK:  false,
		},
		{
			name:    "wait is not accepted from the source",
			payload: map[string]any{"action": "WAIT", "symbol": "GOLD", "price": 100.0},
			wantOK:  false,
		},
		{
			name:    "non-string action",
			payload: map[string]any{"action": 7.0, "symbol": "GOLD", "price": 100.0},
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.payload)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

// A price of exactly zero is treated as missing. This is a known boundary
// of the truthiness-based check, preserved on purpose.
func TestValidator_ZeroPriceTreatedAsMissing(t *testing.T) {
	v := NewValidator(discardLogger())

	err := v.Validate(map[string]any{"action": "BUY", "symbol": "GOLD", "price": 0.0})
	assert.Error(t, err)

	// A zero price submitted as a string is truthy and passes.
	err = v.Validate(map[string]any{"action": "BUY", "symbol": "GOLD", "price": "0"})
	assert.NoError(t, err)
}
