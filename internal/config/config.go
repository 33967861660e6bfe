package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the full, validated configuration surface. It is loaded
// once at startup and immutable for the process lifetime.
//
// Environment variables are the primary source. Setting CONFIG_FILE
// switches to a YAML file instead (env defaults still apply for keys
// the file omits).
type Config struct {
	// Server settings
	Port            string        `env:"PORT"             envDefault:"8080" yaml:"port"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"   yaml:"shutdown_timeout"`
	DispatchTimeout time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"60s"  yaml:"dispatch_timeout"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info" yaml:"log_level"`
	PrettyLog bool   `env:"PRETTY_LOG" envDefault:"true" yaml:"pretty_log"`

	// Upstream bookmark API
	HoarderServerURL string `env:"HOARDER_SERVER_URL" yaml:"hoarder_server_url"`
	HoarderAPIKey    string `env:"HOARDER_API_KEY"    yaml:"hoarder_api_key"`
	SpecificListID   string `env:"SPECIFIC_LIST_ID"   yaml:"specific_list_id"`
	OnlyUnarchived   bool   `env:"ONLY_UNARCHIVED"    envDefault:"true" yaml:"only_unarchived"`

	// Notification settings
	NotificationMethod    string `env:"NOTIFICATION_METHOD"    yaml:"notification_method"`
	NotificationFrequency string `env:"NOTIFICATION_FREQUENCY" envDefault:"daily" yaml:"notification_frequency"`
	TimeToSend            string `env:"TIME_TO_SEND"           envDefault:"09:00" yaml:"time_to_send"`
	Timezone              string `env:"TIMEZONE"               envDefault:"UTC"   yaml:"timezone"`
	BookmarksCount        int    `env:"BOOKMARKS_COUNT"        envDefault:"5"     yaml:"bookmarks_count"`

	// RSS feed
	FeedBaseURL string `env:"FEED_BASE_URL" envDefault:"http://localhost:8080" yaml:"feed_base_url"`

	// Email channel
	EmailHost      string `env:"EMAIL_HOST"      yaml:"email_host"`
	EmailPort      int    `env:"EMAIL_PORT"      envDefault:"587" yaml:"email_port"`
	EmailUser      string `env:"EMAIL_USER"      yaml:"email_user"`
	EmailPassword  string `env:"EMAIL_PASSWORD"  yaml:"email_password"`
	EmailFrom      string `env:"EMAIL_FROM"      yaml:"email_from"`
	EmailRecipient string `env:"EMAIL_RECIPIENT" yaml:"email_recipient"`

	// Discord channel
	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL" yaml:"discord_webhook_url"`

	// Telegram channel
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN" yaml:"telegram_bot_token"`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID"   yaml:"telegram_chat_id"`

	// Redis (optional digest persistence; empty addr disables it)
	RedisAddr           string        `env:"REDIS_ADDR"            yaml:"redis_addr"`
	RedisUser           string        `env:"REDIS_USERNAME"        envDefault:"default" yaml:"redis_username"`
	RedisPassword       string        `env:"REDIS_PASSWORD"        yaml:"redis_password"`
	RedisDB             int           `env:"REDIS_DB"              envDefault:"0"   yaml:"redis_db"`
	RedisDialTimeout    time.Duration `env:"REDIS_DIAL_TIMEOUT"    envDefault:"5s"  yaml:"redis_dial_timeout"`
	RedisReadTimeout    time.Duration `env:"REDIS_READ_TIMEOUT"    envDefault:"3s"  yaml:"redis_read_timeout"`
	RedisWriteTimeout   time.Duration `env:"REDIS_WRITE_TIMEOUT"   envDefault:"3s"  yaml:"redis_write_timeout"`
	RedisPoolSize       int           `env:"REDIS_POOL_SIZE"       envDefault:"10"  yaml:"redis_pool_size"`
	RedisConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s" yaml:"redis_connect_timeout"`
	RedisRetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL"  envDefault:"2s"  yaml:"redis_retry_interval"`
	RedisMaxWait        time.Duration `env:"REDIS_MAX_WAIT"        envDefault:"10s" yaml:"redis_max_wait"`
	RedisPingTimeout    time.Duration `env:"REDIS_PING_TIMEOUT"    envDefault:"5s"  yaml:"redis_ping_timeout"`
	RedisWarnThreshold  int           `env:"REDIS_WARN_THRESHOLD"  envDefault:"3"   yaml:"redis_warn_threshold"`
}

// Load reads configuration from the environment, or from the YAML
// file named by CONFIG_FILE when set, and validates it.
func Load() (*Config, error) {
	var cfg Config

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return nil, err
		}
	} else {
		if err := env.Parse(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFile fills cfg from a YAML file. Env defaults are applied first
// so keys absent from the file keep their documented defaults.
func loadFile(cfg *Config, path string) error {
	if err := env.ParseWithOptions(cfg, env.Options{
		Environment: map[string]string{},
	}); err != nil {
		return fmt.Errorf("failed to apply config defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config yaml: %w", err)
	}
	return nil
}

// Validate checks cross-field constraints. Frequency and timezone are
// validated by the scheduler (invalid values are fatal there), so only
// the rest is checked here.
func (c *Config) Validate() error {
	if c.HoarderServerURL == "" {
		return fmt.Errorf("HOARDER_SERVER_URL is required")
	}
	if c.HoarderAPIKey == "" {
		return fmt.Errorf("HOARDER_API_KEY is required")
	}
	if c.NotificationMethod == "" {
		return fmt.Errorf("NOTIFICATION_METHOD is required")
	}
	if c.BookmarksCount <= 0 {
		return fmt.Errorf("BOOKMARKS_COUNT must be positive, got %d", c.BookmarksCount)
	}

	switch c.NotificationMethod {
	case "email":
		if c.EmailHost == "" || c.EmailFrom == "" || c.EmailRecipient == "" {
			return fmt.Errorf("email method requires EMAIL_HOST, EMAIL_FROM and EMAIL_RECIPIENT")
		}
	case "discord":
		if c.DiscordWebhookURL == "" {
			return fmt.Errorf("discord method requires DISCORD_WEBHOOK_URL")
		}
	case "telegram":
		if c.TelegramBotToken == "" || c.TelegramChatID == 0 {
			return fmt.Errorf("telegram method requires TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
		}
	case "rss":
		// No credentials; the feed is served by this process.
	default:
		return fmt.Errorf("invalid notification method: %q", c.NotificationMethod)
	}

	return nil
}

// ListenAddr returns the address for the HTTP server.
func (c *Config) ListenAddr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// FeedURL returns the absolute URL of the RSS feed endpoint.
func (c *Config) FeedURL() string {
	return strings.TrimRight(c.FeedBaseURL, "/") + "/rss/feed"
}
