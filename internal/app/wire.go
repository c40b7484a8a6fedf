package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maelrouault/signalrelay/internal/cache/memory"
	"github.com/maelrouault/signalrelay/internal/cache/redis"
	"github.com/maelrouault/signalrelay/internal/config"
	"github.com/maelrouault/signalrelay/internal/domain"
	"github.com/maelrouault/signalrelay/internal/notify"
	"github.com/maelrouault/signalrelay/internal/quotes"
	"github.com/maelrouault/signalrelay/internal/server"
	"github.com/maelrouault/signalrelay/internal/server/handler"
	"github.com/maelrouault/signalrelay/internal/server/ws"
	"github.com/maelrouault/signalrelay/internal/signal"
)

// Dependencies bundles everything the running relay needs. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Mailbox    *signal.Mailbox
	Dispatcher *signal.Dispatcher
	Hub        *ws.Hub
	Server     *server.Server

	Limiter   domain.RateLimiter
	Publisher domain.SignalPublisher
	Notifier  *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Redis (optional: shared rate limiting and the signal tap) ---
	if cfg.Redis.Addr != "" {
		rdb, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })

		deps.Limiter = redis.NewRateLimiter(rdb)
		deps.Publisher = redis.NewPublisher(rdb)
	} else if cfg.RateLimit.Enabled {
		deps.Limiter = memory.NewRateLimiter()
	}
	if !cfg.RateLimit.Enabled {
		deps.Limiter = nil
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Core ---
	deps.Hub = ws.NewHub(logger)
	deps.Mailbox = signal.NewMailbox(cfg.MailboxTTL())
	deps.Dispatcher = signal.NewDispatcher(signal.DispatcherConfig{
		Mailbox:   deps.Mailbox,
		Validator: signal.NewValidator(logger),
		Builder:   signal.NewBuilder(),
		Clients:   deps.Hub,
		Publisher: deps.Publisher,
		Notifier:  deps.Notifier,
		Logger:    logger,
	})

	// --- HTTP surface ---
	handlers := server.Handlers{
		Webhook: handler.NewWebhookHandler(deps.Dispatcher, cfg.Webhook.Secret, logger),
		Health:  handler.NewHealthHandler(logger),
		Status:  handler.NewStatusHandler(deps.Hub, deps.Mailbox),
	}
	if cfg.Quotes.APIKey != "" {
		handlers.Quotes = handler.NewQuoteHandler(
			quotes.NewClient(cfg.Quotes.APIKey, cfg.Quotes.BaseURL),
			logger,
		)
	}

	deps.Server = server.NewServer(server.Config{
		Port:              cfg.Server.Port,
		CORSOrigins:       cfg.Server.CORSOrigins,
		APIKey:            cfg.Server.APIKey,
		RateLimitRequests: cfg.RateLimit.Requests,
		RateLimitWindow:   cfg.RateLimitWindow(),
	}, handlers, deps.Hub, deps.Limiter, logger)

	return deps, cleanup, nil
}
