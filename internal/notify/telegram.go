package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DefaultSendTimeout bounds a single photo upload so a stalled network call
// cannot hold a send goroutine forever.
const DefaultSendTimeout = 30 * time.Second

// photoFileName is the name the Bot API sees for uploaded photos.
const photoFileName = "motion.jpg"

// maskPlaceholder replaces the token in client errors, mirroring the
// logger's redaction marker.
const maskPlaceholder = "***"

// Telegram delivers photo notifications to a fixed chat through the
// Telegram Bot API.
type Telegram struct {
	// bot is the authorized Bot API client.
	bot *tgbotapi.BotAPI
	// chatID is the recipient chat.
	chatID int64
	// redact scrubs the token from client errors. Every Bot API request
	// URL embeds the token, so transport errors carry it verbatim.
	redact *strings.Replacer
}

// NewTelegram authorizes against the Bot API and returns a sink bound to the
// given chat. Authorization happens eagerly so a bad token fails the process
// at startup instead of on the first motion event. The timeout bounds every
// API call made by the sink.
func NewTelegram(token string, chatID int64, timeout time.Duration) (*Telegram, error) {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}

	return newTelegramWithClient(token, chatID, &http.Client{Timeout: timeout})
}

// newTelegramWithClient is the injectable core of NewTelegram.
func newTelegramWithClient(token string, chatID int64, client *http.Client) (*Telegram, error) {
	redact := strings.NewReplacer(token, maskPlaceholder)

	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		// The client error wraps the request URL, which embeds the token.
		// The original error is deliberately rebuilt as text so the token
		// cannot resurface through an unmasked sink up the call chain.
		return nil, fmt.Errorf("authorize bot: %s", redact.Replace(err.Error()))
	}

	return &Telegram{
		bot:    bot,
		chatID: chatID,
		redact: redact,
	}, nil
}

// BotUsername returns the username reported by the Bot API at authorization.
func (t *Telegram) BotUsername() string {
	return t.bot.Self.UserName
}

// SendPhoto uploads the request photo with its caption to the configured chat.
func (t *Telegram) SendPhoto(ctx context.Context, req *Request) error {
	// The underlying client has no context support; honor cancellation
	// between attempts and rely on the HTTP timeout during the upload.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send aborted: %w", err)
	}

	photo := tgbotapi.NewPhoto(t.chatID, tgbotapi.FileBytes{
		Name:  photoFileName,
		Bytes: req.Photo,
	})
	photo.Caption = req.Caption

	if _, err := t.bot.Send(photo); err != nil {
		return fmt.Errorf("send photo: %s", t.redact.Replace(err.Error()))
	}

	return nil
}
