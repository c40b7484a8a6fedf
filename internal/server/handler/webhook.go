package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/maelrouault/signalrelay/internal/domain"
	"github.com/maelrouault/signalrelay/internal/signal"
)

// Dispatcher is the subset of the relay core the webhook handler requires.
type Dispatcher interface {
	Ingest(ctx context.Context, payload map[string]any, authorized bool) (signal.IngestResult, error)
}

// WebhookHandler serves the signal ingestion endpoint. Authorization is a
// constant-time comparison of the path secret against the configured one;
// the outcome is passed into the dispatcher, which owns the rejection.
type WebhookHandler struct {
	dispatcher Dispatcher
	secret     string
	logger     *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler for the given dispatcher and
// webhook secret.
func NewWebhookHandler(dispatcher Dispatcher, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		dispatcher: dispatcher,
		secret:     secret,
		logger:     logger,
	}
}

// webhookResponse wraps a successful ingestion result.
type webhookResponse struct {
	Message         string          `json:"message"`
	Signals         []domain.Signal `json:"signals"`
	ClientsNotified int             `json:"clientsNotified"`
}

// Receive processes one inbound webhook event.
// POST /webhook/tradingview/{secret}
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	secret := pathParam(r, "secret")
	authorized := subtle.ConstantTimeCompare([]byte(secret), []byte(h.secret)) == 1

	// An empty body counts as an empty payload, so a bad secret still gets
	// its 401 before any payload complaint.
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if !errors.Is(err, io.EOF) {
			writeErrorDetails(w, http.StatusBadRequest, "signal processing error", "invalid request body")
			return
		}
		payload = map[string]any{}
	}

	result, err := h.dispatcher.Ingest(r.Context(), payload, authorized)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			h.logger.WarnContext(r.Context(), "unauthorized webhook attempt",
				slog.String("remote_addr", r.RemoteAddr),
			)
			writeError(w, http.StatusUnauthorized, "unauthorized")
		case errors.Is(err, domain.ErrInvalidSignal), errors.Is(err, domain.ErrInvalidRequest):
			writeErrorDetails(w, http.StatusBadRequest, "signal processing error", err.Error())
		default:
			h.logger.ErrorContext(r.Context(), "webhook processing failed",
				slog.String("error", err.Error()),
			)
			writeErrorDetails(w, http.StatusInternalServerError, "internal server error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, webhookResponse{
		Message:         "signals processed and delivered",
		Signals:         result.Signals,
		ClientsNotified: result.ClientsNotified,
	})
}
