// Package channel implements the pluggable delivery channels for a
// bookmark digest. Exactly one channel is active per process,
// selected once at startup from validated configuration.
package channel

import (
	"context"
	"fmt"

	"linkdigest/internal/config"
	"linkdigest/internal/domain"
	"linkdigest/internal/feedcache"
	"linkdigest/internal/logger"
)

// Method is the closed set of delivery channel kinds.
type Method string

const (
	MethodEmail    Method = "email"
	MethodDiscord  Method = "discord"
	MethodTelegram Method = "telegram"
	MethodFeed     Method = "rss"
)

// ParseMethod validates a configured method string.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodEmail, MethodDiscord, MethodTelegram, MethodFeed:
		return Method(s), nil
	default:
		return "", fmt.Errorf("invalid notification method: %q", s)
	}
}

// Channel delivers one digest of bookmarks to an external system.
// Deliver is one-shot: no retries, no partial recovery. A failure is
// reported to the caller and the next scheduled run starts fresh.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, bookmarks []domain.Bookmark) error
}

// Select builds the channel for the configured method. The feed
// channel writes into cache instead of pushing anywhere.
func Select(cfg *config.Config, cache *feedcache.Cache, log logger.Logger) (Channel, error) {
	method, err := ParseMethod(cfg.NotificationMethod)
	if err != nil {
		return nil, err
	}

	switch method {
	case MethodEmail:
		return NewEmail(EmailOptions{
			Host:      cfg.EmailHost,
			Port:      cfg.EmailPort,
			User:      cfg.EmailUser,
			Password:  cfg.EmailPassword,
			From:      cfg.EmailFrom,
			Recipient: cfg.EmailRecipient,
		}, log), nil
	case MethodDiscord:
		return NewDiscord(cfg.DiscordWebhookURL, log), nil
	case MethodTelegram:
		return NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, log)
	case MethodFeed:
		return NewFeed(cache, log), nil
	}

	return nil, fmt.Errorf("invalid notification method: %q", cfg.NotificationMethod)
}
