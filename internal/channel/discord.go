package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"linkdigest/internal/domain"
	"linkdigest/internal/logger"
)

// discordMaxEmbeds is Discord's per-message embed limit.
const discordMaxEmbeds = 10

// DiscordChannel posts the digest to a Discord webhook, one embed per
// bookmark.
type DiscordChannel struct {
	webhookURL string
	http       *http.Client
	logger     logger.Logger
}

type discordPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewDiscord creates the Discord webhook channel.
func NewDiscord(webhookURL string, log logger.Logger) *DiscordChannel {
	return &DiscordChannel{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 15 * time.Second},
		logger:     log,
	}
}

func (d *DiscordChannel) Name() string { return string(MethodDiscord) }

// Deliver posts bookmarks to the webhook, chunked at the embed limit.
func (d *DiscordChannel) Deliver(ctx context.Context, bookmarks []domain.Bookmark) error {
	embeds := make([]discordEmbed, 0, len(bookmarks))
	for _, b := range bookmarks {
		embeds = append(embeds, discordEmbed{
			Title:       b.Title,
			URL:         b.URL,
			Description: embedDescription(b),
		})
	}

	for start := 0; start < len(embeds); start += discordMaxEmbeds {
		end := min(start+discordMaxEmbeds, len(embeds))

		payload := discordPayload{Embeds: embeds[start:end]}
		if start == 0 {
			payload.Content = "📚 Your random bookmarks"
		}

		if err := d.post(ctx, payload); err != nil {
			return err
		}
	}

	d.logger.Info("discord webhook delivered",
		logger.Int("bookmarks", len(bookmarks)))

	return nil
}

func (d *DiscordChannel) post(ctx context.Context, payload discordPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func embedDescription(b domain.Bookmark) string {
	parts := make([]string, 0, 2)
	if b.Description != "" {
		parts = append(parts, b.Description)
	}
	if len(b.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(b.Tags, ", "))
	}
	return strings.Join(parts, "\n\n")
}
