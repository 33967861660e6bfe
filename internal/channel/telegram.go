package channel

import (
	"context"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	tele "gopkg.in/telebot.v4"

	"linkdigest/internal/domain"
	"linkdigest/internal/logger"
)

// telegramMessageMaxLength is Telegram's hard message size limit.
const telegramMessageMaxLength = 4096

// telegramSender is the part of the bot API the channel uses; the
// real implementation is *tele.Bot.
type telegramSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// TelegramChannel sends the digest as HTML messages to a configured
// chat, chunked at the message size limit.
type TelegramChannel struct {
	bot    telegramSender
	chatID int64
	logger logger.Logger
}

// NewTelegram creates the Telegram bot channel. Building the bot
// performs a getMe call, so an invalid token fails here at startup.
func NewTelegram(token string, chatID int64, log logger.Logger) (*TelegramChannel, error) {
	bot, err := tele.NewBot(tele.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramChannel{bot: bot, chatID: chatID, logger: log}, nil
}

func (t *TelegramChannel) Name() string { return string(MethodTelegram) }

// Deliver formats bookmarks into one or more messages and sends them.
// The bot API has no context support; cancellation applies between
// messages.
func (t *TelegramChannel) Deliver(ctx context.Context, bookmarks []domain.Bookmark) error {
	messages := formatTelegramMessages(bookmarks)

	opts := &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
	}

	for _, message := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := t.bot.Send(tele.ChatID(t.chatID), message, opts); err != nil {
			return fmt.Errorf("failed to send telegram message: %w", err)
		}
	}

	t.logger.Info("telegram messages sent",
		logger.Int("messages", len(messages)),
		logger.Int("bookmarks", len(bookmarks)))

	return nil
}

// formatTelegramMessages renders one HTML block per bookmark and
// packs blocks into messages under the size limit.
func formatTelegramMessages(bookmarks []domain.Bookmark) []string {
	header := "📚 <b>Your random bookmarks</b>\n\n"

	var messages []string
	var current strings.Builder
	current.WriteString(header)
	headerLen := current.Len()

	for _, b := range bookmarks {
		block := fitTelegramBlock(b, telegramMessageMaxLength-headerLen)
		if current.Len() > headerLen && current.Len()+len(block) > telegramMessageMaxLength {
			messages = append(messages, current.String())
			current.Reset()
		}
		current.WriteString(block)
	}

	if current.Len() > 0 && current.String() != header {
		messages = append(messages, current.String())
	}
	return messages
}

// fitTelegramBlock shrinks a block that alone would exceed a message.
// Cutting rendered bytes could split an HTML tag, so the description
// (and as a last resort the title) is halved and the block rebuilt
// until it fits; escaping can expand text, hence the loop.
func fitTelegramBlock(b domain.Bookmark, max int) string {
	block := formatTelegramBlock(b)
	for len(block) > max && b.Description != "" {
		b.Description = halveAtRune(b.Description)
		block = formatTelegramBlock(b)
	}
	for len(block) > max && len(b.Title) > 1 {
		b.Title = halveAtRune(b.Title)
		block = formatTelegramBlock(b)
	}
	return block
}

func halveAtRune(s string) string {
	cut := len(s) / 2
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func formatTelegramBlock(b domain.Bookmark) string {
	var block strings.Builder

	title := html.EscapeString(b.Title)
	if b.URL != "" {
		block.WriteString(fmt.Sprintf("<a href=%q><b>%s</b></a>\n", b.URL, title))
	} else {
		block.WriteString("<b>" + title + "</b>\n")
	}
	if b.Description != "" {
		block.WriteString(html.EscapeString(b.Description) + "\n")
	}
	if len(b.Tags) > 0 {
		block.WriteString("<i>Tags: " + html.EscapeString(strings.Join(b.Tags, ", ")) + "</i>\n")
	}
	block.WriteString("\n")

	return block.String()
}
