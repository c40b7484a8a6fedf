package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/maelrouault/signalrelay/internal/signal"
)

// Version reported by the info endpoint.
const Version = "2.0.0"

// SubscriberCounter reports how many push subscribers are connected.
type SubscriberCounter interface {
	ClientCount() int
}

// MailboxStats reports how many signals are currently pending.
type MailboxStats interface {
	Len() int
}

// StatusHandler serves the service info and status probe endpoints.
type StatusHandler struct {
	subscribers SubscriberCounter
	mailbox     MailboxStats
}

// NewStatusHandler creates a StatusHandler over the subscriber registry and
// the mailbox.
func NewStatusHandler(subscribers SubscriberCounter, mailbox MailboxStats) *StatusHandler {
	return &StatusHandler{
		subscribers: subscribers,
		mailbox:     mailbox,
	}
}

// Info describes the service and its endpoints.
// GET /
func (h *StatusHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "gold trading signal relay",
		"endpoints": map[string]string{
			"webhook": "/webhook/tradingview/{secret} (POST)",
			"test":    "/test (GET)",
			"ws":      "/ws (GET)",
		},
		"symbols":   signal.KnownSymbols,
		"version":   Version,
		"wsClients": h.subscribers.ClientCount(),
	})
}

// Probe reports a status snapshot for monitoring.
// GET /test
func (h *StatusHandler) Probe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "OK",
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"symbols":           signal.KnownSymbols,
		"activeConnections": h.subscribers.ClientCount(),
		"lastSignalsCount":  h.mailbox.Len(),
		"environment": map[string]any{
			"go":       runtime.Version(),
			"platform": runtime.GOOS,
			"arch":     runtime.GOARCH,
		},
	})
}
