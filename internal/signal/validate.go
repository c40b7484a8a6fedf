package signal

import (
	"fmt"
	"log/slog"
	"strings"
)

// requiredFields must all carry a non-empty value before a payload is
// accepted for storage and broadcast.
var requiredFields = []string{"action", "symbol", "price"}

// validActions are the trade intents the webhook source may submit. WAIT is
// synthesized internally and never accepted from outside.
var validActions = map[string]bool{
	"BUY":   true,
	"SELL":  true,
	"CLOSE": true,
}

// Validator checks inbound webhook payloads before they are turned into
// canonical signals. It only applies to signals intended for storage and
// broadcast; the poll request shape is checked separately by the dispatcher.
type Validator struct {
	logger *slog.Logger
}

// NewValidator creates a Validator that logs each rejection reason.
func NewValidator(logger *slog.Logger) *Validator {
	return &Validator{
		logger: logger.With(slog.String("component", "validator")),
	}
}

// Validate returns nil when the payload carries the three required fields
// and an allowed action, and an error naming the first failure otherwise.
// Only the literal lowercase keys count here; the field-alias table applies
// at build time, not during validation.
func (v *Validator) Validate(payload map[string]any) error {
	for _, field := range requiredFields {
		if !present(payload[field]) {
			v.logger.Warn("invalid signal: missing field", slog.String("field", field))
			return fmt.Errorf("missing required field %q", field)
		}
	}

	action, _ := payload["action"].(string)
	if !validActions[strings.ToUpper(action)] {
		v.logger.Warn("invalid signal: action not allowed", slog.Any("action", payload["action"]))
		return fmt.Errorf("action %q is not allowed", action)
	}

	return nil
}

// present reports whether a payload value counts as supplied. Absent keys,
// nulls, empty strings, zeros, and false all count as missing. This makes a
// price of exactly 0 indistinguishable from a missing price; the leniency
// is intentional and kept as-is.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}
