package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies RELAY_* environment variable overrides, and
// returns the final Config. A missing file is not an error: the relay can
// run entirely from defaults plus environment variables. The returned
// Config has NOT been validated; callers should invoke Config.Validate().
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known RELAY_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "RELAY_SERVER_PORT")
	setInt(&cfg.Server.Port, "PORT") // compatibility alias
	setStringSlice(&cfg.Server.CORSOrigins, "RELAY_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "RELAY_SERVER_API_KEY")
	setStr(&cfg.Server.APIKey, "API_KEY") // compatibility alias

	// ── Webhook ──
	setStr(&cfg.Webhook.Secret, "RELAY_WEBHOOK_SECRET")
	setStr(&cfg.Webhook.Secret, "WEBHOOK_SECRET") // compatibility alias

	// ── Mailbox ──
	setDuration(&cfg.Mailbox.TTL, "RELAY_MAILBOX_TTL")

	// ── Rate limit ──
	setBool(&cfg.RateLimit.Enabled, "RELAY_RATELIMIT_ENABLED")
	setInt(&cfg.RateLimit.Requests, "RELAY_RATELIMIT_REQUESTS")
	setDuration(&cfg.RateLimit.Window, "RELAY_RATELIMIT_WINDOW")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "RELAY_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "RELAY_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "RELAY_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "RELAY_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "RELAY_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "RELAY_REDIS_TLS_ENABLED")

	// ── Quotes ──
	setStr(&cfg.Quotes.APIKey, "RELAY_QUOTES_API_KEY")
	setStr(&cfg.Quotes.APIKey, "ALPHA_VANTAGE_API_KEY") // compatibility alias
	setStr(&cfg.Quotes.BaseURL, "RELAY_QUOTES_BASE_URL")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "RELAY_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "RELAY_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "RELAY_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "RELAY_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "RELAY_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
