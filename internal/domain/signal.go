// Package domain defines the core types shared across the signal relay:
// trade signals, market quotes, error sentinels, and the interfaces
// implemented by the cache layer.
package domain

import "time"

// Action is the intent carried by a trade signal.
type Action string

const (
	ActionBuy   Action = "BUY"
	ActionSell  Action = "SELL"
	ActionClose Action = "CLOSE"
	// ActionWait is synthesized for poll responses when no signal is
	// pending. It is never accepted from the webhook source.
	ActionWait Action = "WAIT"
)

// UnknownSymbol is the sentinel canonical symbol for empty or unparseable
// instrument identifiers. Signals carrying it are never stored.
const UnknownSymbol = "UNKNOWN"

// Signal is the canonical trade signal record delivered to subscribers.
// Timestamp is assigned once, when the record is built, and reflects server
// processing time rather than anything the source claims.
type Signal struct {
	Action       Action    `json:"action"`
	Symbol       string    `json:"symbol"`
	ID           int64     `json:"id"`
	Price        float64   `json:"price"`
	StopLoss     float64   `json:"sl"`
	TakeProfit   float64   `json:"tp"`
	PositionSize float64   `json:"positionSize"`
	Timestamp    time.Time `json:"timestamp"`
}

// Actionable reports whether the signal carries a trade intent, as opposed
// to a synthesized WAIT placeholder.
func (s Signal) Actionable() bool {
	return s.Action != ActionWait
}

// Quote is a market data snapshot for a single instrument, as returned by
// the quote provider.
type Quote struct {
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	Volume           float64 `json:"volume"`
	LatestTradingDay string  `json:"latestTradingDay"`
	PreviousClose    float64 `json:"previousClose"`
	Change           float64 `json:"change"`
	ChangePercent    string  `json:"changePercent"`
}
