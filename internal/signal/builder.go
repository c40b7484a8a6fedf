package signal

import (
	"strconv"
	"strings"
	"time"

	"github.com/maelrouault/signalrelay/internal/domain"
)

// fieldAliases declares, per canonical field, the payload keys accepted for
// it in precedence order. The webhook source mixes capitalized, lowercase,
// and localized key names; resolution happens in exactly one place (pick)
// so adding an alias cannot change behavior elsewhere.
var fieldAliases = map[string][]string{
	"action":       {"Action", "action"},
	"symbol":       {"Symbol", "symbol"},
	"id":           {"ID", "id"},
	"price":        {"Prix", "price"},
	"sl":           {"SL", "sl"},
	"tp":           {"TP", "tp"},
	"positionSize": {"positionSize", "size"},
}

// Builder coerces validated webhook payloads into canonical Signal records
// and synthesizes WAIT placeholders for the poll path. Building never fails:
// numeric fields follow the lenient-parse policy (see lenientFloat) and the
// timestamp is always freshly server-assigned.
type Builder struct {
	ids *idGenerator
	now func() time.Time
}

// NewBuilder creates a Builder with a process-wide monotonic id source.
func NewBuilder() *Builder {
	return &Builder{
		ids: newIDGenerator(),
		now: time.Now,
	}
}

// Build constructs the canonical Signal for a payload that already passed
// validation. The symbol is normalized, the action uppercased, and the id
// taken from the payload when it carries a usable positive number.
func (b *Builder) Build(payload map[string]any) domain.Signal {
	action, _ := pick(payload, "action").(string)
	symbol, _ := pick(payload, "symbol").(string)

	return domain.Signal{
		Action:       domain.Action(strings.ToUpper(action)),
		Symbol:       NormalizeSymbol(symbol),
		ID:           b.signalID(pick(payload, "id")),
		Price:        lenientFloat(pick(payload, "price"), 0),
		StopLoss:     lenientFloat(pick(payload, "sl"), 0),
		TakeProfit:   lenientFloat(pick(payload, "tp"), 0),
		PositionSize: lenientFloat(pick(payload, "positionSize"), 1),
		Timestamp:    b.now().UTC(),
	}
}

// Wait returns the placeholder returned for a polled symbol with nothing
// pending: action WAIT, zero prices, unit position size, fresh id.
func (b *Builder) Wait(symbol string) domain.Signal {
	return domain.Signal{
		Action:       domain.ActionWait,
		Symbol:       symbol,
		ID:           b.ids.next(b.now()),
		PositionSize: 1,
		Timestamp:    b.now().UTC(),
	}
}

// signalID keeps a caller-supplied positive numeric id and generates a
// timestamp-derived one otherwise. Uniqueness is best effort.
func (b *Builder) signalID(v any) int64 {
	if id := int64(lenientFloat(v, 0)); id > 0 {
		return id
	}
	return b.ids.next(b.now())
}

// pick resolves a canonical field against the alias table, returning the
// first value that counts as supplied, or nil.
func pick(payload map[string]any, field string) any {
	for _, key := range fieldAliases[field] {
		if v, ok := payload[key]; ok && present(v) {
			return v
		}
	}
	return nil
}

// lenientFloat is the relay's lenient-parse policy for numeric fields: JSON
// numbers and numeric strings are accepted, anything else degrades to the
// field's documented default instead of failing the signal.
func lenientFloat(v any, fallback float64) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
		return fallback
	default:
		return fallback
	}
}
