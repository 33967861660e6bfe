package channel

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"linkdigest/internal/domain"
	"linkdigest/internal/logger"
)

// EmailOptions holds the SMTP settings for the email channel.
type EmailOptions struct {
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	Recipient string
}

// EmailChannel sends the digest as a plain-text email to one
// configured recipient.
type EmailChannel struct {
	opts   EmailOptions
	send   func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
	logger logger.Logger
}

// NewEmail creates the email channel.
func NewEmail(opts EmailOptions, log logger.Logger) *EmailChannel {
	return &EmailChannel{
		opts:   opts,
		send:   smtp.SendMail,
		logger: log,
	}
}

func (e *EmailChannel) Name() string { return string(MethodEmail) }

// Deliver renders the message body and submits it to the SMTP server.
// The smtp package has no context support; cancellation applies only
// up to the point the send starts.
func (e *EmailChannel) Deliver(ctx context.Context, bookmarks []domain.Bookmark) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if e.opts.User != "" {
		auth = smtp.PlainAuth("", e.opts.User, e.opts.Password, e.opts.Host)
	}

	addr := fmt.Sprintf("%s:%d", e.opts.Host, e.opts.Port)
	msg := e.buildMessage(bookmarks)

	if err := e.send(addr, auth, e.opts.From, []string{e.opts.Recipient}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	e.logger.Info("email sent",
		logger.String("recipient", e.opts.Recipient),
		logger.Int("bookmarks", len(bookmarks)))

	return nil
}

func (e *EmailChannel) buildMessage(bookmarks []domain.Bookmark) []byte {
	var b strings.Builder

	b.WriteString("From: " + e.opts.From + "\r\n")
	b.WriteString("To: " + e.opts.Recipient + "\r\n")
	b.WriteString("Subject: Your Random Bookmarks\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")

	b.WriteString("Here are your random bookmarks:\r\n\r\n")
	for i, bm := range bookmarks {
		b.WriteString(fmt.Sprintf("%d. %s\r\n", i+1, bm.Title))
		if bm.URL != "" {
			b.WriteString("   " + bm.URL + "\r\n")
		}
		if bm.Description != "" {
			b.WriteString("   " + bm.Description + "\r\n")
		}
		if len(bm.Tags) > 0 {
			b.WriteString("   Tags: " + strings.Join(bm.Tags, ", ") + "\r\n")
		}
		b.WriteString("\r\n")
	}

	return []byte(b.String())
}
