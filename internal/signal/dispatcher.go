package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/maelrouault/signalrelay/internal/domain"
)

// checkSignalAction is the sentinel action value that turns a webhook POST
// into a pull-style poll instead of an ingestion.
const checkSignalAction = "check_signal"

// publishChannel is the pub/sub channel processed batches are mirrored to
// when a publisher is configured.
const publishChannel = "signals"

// Broadcaster is the push transport collaborator. Broadcast hands the
// current subscriber set a signal batch and reports how many subscribers
// were notified. Implementations must not block on slow subscribers.
type Broadcaster interface {
	Broadcast(signals []domain.Signal) int
}

// Notifier receives a best-effort event per accepted signal. Failures never
// affect ingestion.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// Dispatcher orchestrates signal delivery. Ingestion validates and builds
// the canonical signal, stores it in the mailbox, and broadcasts it;
// polling consumes pending mailbox entries or synthesizes WAIT
// placeholders. Both paths share the webhook entry point, distinguished by
// the check_signal sentinel action.
type Dispatcher struct {
	mailbox   *Mailbox
	validator *Validator
	builder   *Builder
	clients   Broadcaster
	publisher domain.SignalPublisher
	notifier  Notifier
	logger    *slog.Logger
}

// DispatcherConfig bundles the dispatcher's collaborators. Publisher and
// Notifier are optional.
type DispatcherConfig struct {
	Mailbox   *Mailbox
	Validator *Validator
	Builder   *Builder
	Clients   Broadcaster
	Publisher domain.SignalPublisher
	Notifier  Notifier
	Logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher from its collaborators.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		mailbox:   cfg.Mailbox,
		validator: cfg.Validator,
		builder:   cfg.Builder,
		clients:   cfg.Clients,
		publisher: cfg.Publisher,
		notifier:  cfg.Notifier,
		logger:    cfg.Logger.With(slog.String("component", "dispatcher")),
	}
}

// IngestResult is the success payload for a processed webhook request.
type IngestResult struct {
	Signals         []domain.Signal `json:"signals"`
	ClientsNotified int             `json:"clientsNotified"`
}

// Ingest processes one inbound webhook payload. The caller performs the
// secret comparison and passes the outcome in authorized; an unauthorized
// request is rejected before any processing. The resulting signal list —
// from either the ingestion or the poll path — is broadcast to all
// currently connected subscribers.
func (d *Dispatcher) Ingest(ctx context.Context, payload map[string]any, authorized bool) (IngestResult, error) {
	if !authorized {
		return IngestResult{}, domain.ErrUnauthorized
	}

	signals, err := d.process(ctx, payload)
	if err != nil {
		return IngestResult{}, err
	}

	notified := d.clients.Broadcast(signals)
	d.logger.InfoContext(ctx, "signals dispatched",
		slog.Int("count", len(signals)),
		slog.Int("clients_notified", notified),
	)

	d.mirror(ctx, signals)

	return IngestResult{Signals: signals, ClientsNotified: notified}, nil
}

// process routes the payload to the poll or ingestion path and returns the
// signal list to deliver.
func (d *Dispatcher) process(ctx context.Context, payload map[string]any) ([]domain.Signal, error) {
	if action, _ := payload["action"].(string); action == checkSignalAction {
		symbols, err := pollSymbols(payload)
		if err != nil {
			return nil, err
		}
		return d.Poll(symbols), nil
	}

	if err := d.validator.Validate(payload); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSignal, err)
	}

	sig := d.builder.Build(payload)
	if sig.Symbol != domain.UnknownSymbol {
		d.mailbox.Put(sig.Symbol, sig)
	} else {
		d.logger.WarnContext(ctx, "signal has no addressable symbol, not stored")
	}

	d.notify(ctx, sig)

	return []domain.Signal{sig}, nil
}

// Poll returns one result per requested symbol: the pending mailbox signal
// (consumed, never returned twice) when one is fresh, otherwise a WAIT
// placeholder for the normalized symbol.
func (d *Dispatcher) Poll(symbols []string) []domain.Signal {
	results := make([]domain.Signal, 0, len(symbols))
	for _, raw := range symbols {
		symbol := NormalizeSymbol(raw)
		if sig, ok := d.mailbox.Take(symbol); ok {
			results = append(results, sig)
			continue
		}
		results = append(results, d.builder.Wait(symbol))
	}
	return results
}

// pollSymbols extracts the symbols list from a check_signal payload. A
// missing or non-list value fails the request; individual entries that are
// not strings are kept as empty strings so they normalize to UNKNOWN and
// receive WAIT placeholders rather than failing the whole poll.
func pollSymbols(payload map[string]any) ([]string, error) {
	raw, ok := payload["symbols"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: symbols list is missing or invalid", domain.ErrInvalidRequest)
	}

	symbols := make([]string, len(raw))
	for i, v := range raw {
		s, _ := v.(string)
		symbols[i] = s
	}
	return symbols, nil
}

// mirror publishes the batch to the signals pub/sub channel when a
// publisher is configured. Failures are logged and swallowed.
func (d *Dispatcher) mirror(ctx context.Context, signals []domain.Signal) {
	if d.publisher == nil {
		return
	}

	payload, err := json.Marshal(signals)
	if err != nil {
		return
	}
	if err := d.publisher.Publish(ctx, publishChannel, payload); err != nil {
		d.logger.WarnContext(ctx, "signal mirror publish failed",
			slog.String("error", err.Error()),
		)
	}
}

// notify emits a best-effort notification for an accepted signal.
func (d *Dispatcher) notify(ctx context.Context, sig domain.Signal) {
	if d.notifier == nil {
		return
	}

	title := fmt.Sprintf("%s %s", sig.Action, sig.Symbol)
	message := fmt.Sprintf("price=%g sl=%g tp=%g size=%g",
		sig.Price, sig.StopLoss, sig.TakeProfit, sig.PositionSize)

	if err := d.notifier.Notify(ctx, "signal", title, message); err != nil {
		d.logger.WarnContext(ctx, "signal notification failed",
			slog.String("error", err.Error()),
		)
	}
}
