// Package signal implements the relay core: symbol normalization, webhook
// payload validation, canonical signal construction, the per-symbol signal
// mailbox, and the dispatcher that ties ingestion, storage, and fan-out
// together.
package signal

import (
	"strings"

	"github.com/maelrouault/signalrelay/internal/domain"
)

// symbolAliases maps known-equivalent instrument identifiers onto each
// other. The table is deliberately symmetric: both naming conventions for
// the same underlying instrument are valid inputs, each resolving to the
// other, so a lookup never chains through multiple entries.
var symbolAliases = map[string]string{
	"XAUUSD": "GOLD",
	"GOLD":   "XAUUSD",
}

// KnownSymbols lists the instrument identifiers the relay was built around.
// Other symbols pass through normalization unchanged.
var KnownSymbols = []string{"GOLD", "XAUUSD"}

// NormalizeSymbol maps a raw instrument identifier to its canonical form.
// Empty input yields domain.UnknownSymbol. Identifiers without an alias are
// uppercased and otherwise returned as-is.
func NormalizeSymbol(raw string) string {
	if raw == "" {
		return domain.UnknownSymbol
	}

	s := strings.ToUpper(raw)
	if alias, ok := symbolAliases[s]; ok {
		return alias
	}
	return s
}
