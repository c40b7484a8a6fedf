package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/maelrouault/signalrelay/internal/domain"
)

// QuoteService fetches market data snapshots from the quote provider.
type QuoteService interface {
	Ticker(ctx context.Context, symbol string) (domain.Quote, error)
}

// QuoteHandler serves market quote lookups.
type QuoteHandler struct {
	quotes QuoteService
	logger *slog.Logger
}

// NewQuoteHandler creates a QuoteHandler with the given service and logger.
func NewQuoteHandler(quotes QuoteService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{
		quotes: quotes,
		logger: logger,
	}
}

// GetQuote returns the latest quote for a symbol.
// GET /api/quote/{symbol}
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := pathParam(r, "symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing symbol")
		return
	}

	quote, err := h.quotes.Ticker(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no quote for symbol")
			return
		}
		h.logger.ErrorContext(r.Context(), "quote lookup failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "quote provider error")
		return
	}

	writeJSON(w, http.StatusOK, quote)
}
