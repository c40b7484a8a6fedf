// Package quotes fetches market data snapshots from Alpha Vantage.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/maelrouault/signalrelay/internal/domain"
)

// defaultBaseURL is the Alpha Vantage query endpoint.
const defaultBaseURL = "https://www.alphavantage.co/query"

// Client queries the Alpha Vantage GLOBAL_QUOTE function. Alpha Vantage is
// quote-only; it offers no order placement of any kind.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a quote client for the given API key. An empty baseURL
// selects the public Alpha Vantage endpoint.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// globalQuoteResponse mirrors the GLOBAL_QUOTE envelope. The provider keys
// fields with numbered names ("01. symbol", "05. price", ...), so the inner
// object is decoded as a plain string map.
type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
}

// Ticker fetches the latest quote for a symbol.
func (c *Client) Ticker(ctx context.Context, symbol string) (domain.Quote, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("quotes: parse base url: %w", err)
	}

	q := u.Query()
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("quotes: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("quotes: fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.Quote{}, fmt.Errorf("quotes: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var envelope globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return domain.Quote{}, fmt.Errorf("quotes: decode response: %w", err)
	}

	// Alpha Vantage returns an empty object for unknown symbols.
	gq := envelope.GlobalQuote
	if len(gq) == 0 {
		return domain.Quote{}, fmt.Errorf("quotes: %s: %w", symbol, domain.ErrNotFound)
	}

	return domain.Quote{
		Symbol:           gq["01. symbol"],
		Price:            parseFloat(gq["05. price"]),
		Volume:           parseFloat(gq["06. volume"]),
		LatestTradingDay: gq["07. latest trading day"],
		PreviousClose:    parseFloat(gq["08. previous close"]),
		Change:           parseFloat(gq["09. change"]),
		ChangePercent:    gq["10. change percent"],
	}, nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
