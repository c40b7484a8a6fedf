// Package config defines the signal relay configuration and provides
// loading and validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by RELAY_* environment variables.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Webhook   WebhookConfig   `toml:"webhook"`
	Mailbox   MailboxConfig   `toml:"mailbox"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	Redis     RedisConfig     `toml:"redis"`
	Quotes    QuotesConfig    `toml:"quotes"`
	Notify    NotifyConfig    `toml:"notify"`
	LogLevel  string          `toml:"log_level"`
}

// ServerConfig holds the HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	// APIKey guards the quote endpoint. Empty disables header auth.
	APIKey string `toml:"api_key"`
}

// WebhookConfig holds the ingestion secret carried in the webhook path.
type WebhookConfig struct {
	Secret string `toml:"secret"`
}

// MailboxConfig holds mailbox tuning.
type MailboxConfig struct {
	// TTL bounds how long a pending signal stays deliverable.
	TTL duration `toml:"ttl"`
}

// RateLimitConfig holds the per-IP request budget.
type RateLimitConfig struct {
	Enabled  bool     `toml:"enabled"`
	Requests int      `toml:"requests"`
	Window   duration `toml:"window"`
}

// RedisConfig holds Redis connection parameters. An empty Addr disables
// Redis entirely; the relay then uses in-process fallbacks.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// QuotesConfig holds the Alpha Vantage quote provider parameters. An empty
// APIKey disables the quote endpoint.
type QuotesConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// NotifyConfig holds operator notification parameters.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Defaults returns a Config populated with reasonable default values. The
// rate limit default matches the upstream webhook source's published
// policy: 100 requests per 15 minutes per IP.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 3000,
		},
		Mailbox: MailboxConfig{
			TTL: duration{5 * time.Minute},
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 100,
			Window:   duration{15 * time.Minute},
		},
		Redis: RedisConfig{
			Addr:       "",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Quotes: QuotesConfig{
			BaseURL: "https://www.alphavantage.co/query",
		},
		LogLevel: "info",
	}
}

// Validate checks the configuration for internal consistency and returns an
// error listing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port %d is out of range", c.Server.Port))
	}

	if c.Webhook.Secret == "" {
		errs = append(errs, "webhook: secret must be set")
	}

	if c.Mailbox.TTL.Duration <= 0 {
		errs = append(errs, "mailbox: ttl must be positive")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 {
			errs = append(errs, "ratelimit: requests must be positive")
		}
		if c.RateLimit.Window.Duration <= 0 {
			errs = append(errs, "ratelimit: window must be positive")
		}
	}

	// Telegram credentials must be set together or not at all.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// MailboxTTL returns the configured mailbox TTL.
func (c *Config) MailboxTTL() time.Duration {
	return c.Mailbox.TTL.Duration
}

// RateLimitWindow returns the configured rate limit window.
func (c *Config) RateLimitWindow() time.Duration {
	return c.RateLimit.Window.Duration
}
