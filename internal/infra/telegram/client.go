// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Backoff bounds the delay between attempts to reach Telegram at startup.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

var DefaultBackoff = Backoff{Initial: 2 * time.Second, Max: 2 * time.Minute}

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// NewBot creates a bot whose API calls are bounded by requestTimeout.
// The long-poll timeout stays below it so getUpdates does not trip the client timeout.
// apiURL may be empty to use the public Bot API.
func NewBot(token, apiURL string, requestTimeout time.Duration, logger *logrus.Entry) (*telebot.Bot, error) {
	pollTimeout := 10 * time.Second
	if requestTimeout <= pollTimeout {
		pollTimeout = requestTimeout / 2
	}
	return telebot.NewBot(telebot.Settings{
		URL:    apiURL,
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: pollTimeout},
		Client: &http.Client{Timeout: requestTimeout},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.WithError(err)
			if c != nil && c.Chat() != nil {
				entry = entry.WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Telegram bot error")
		},
	})
}

// ConnectBot keeps calling NewBot until Telegram answers. A rejected token is returned
// at once as a *homework.ConfigurationError; any other failure is retried until ctx is done.
func ConnectBot(ctx context.Context, token, apiURL string, requestTimeout time.Duration, backoff Backoff, logger *logrus.Entry) (*telebot.Bot, error) {
	delay := backoff.Initial
	for attempt := 1; ; attempt++ {
		bot, err := NewBot(token, apiURL, requestTimeout, logger)
		if err == nil {
			return bot, nil
		}
		if IsAuthError(err) {
			return nil, &homework.ConfigurationError{Err: fmt.Errorf("telegram rejected TELEGRAM_TOKEN: %w", err)}
		}

		logger.WithError(err).WithFields(logrus.Fields{
			"attempt":  attempt,
			"retry_in": delay.String(),
		}).Warn("Could not reach Telegram, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > backoff.Max {
			delay = backoff.Max
		}
	}
}

// IsAuthError reports whether Telegram refused the token itself.
// A malformed token is answered with 404, a revoked one with 401.
func IsAuthError(err error) bool {
	return errors.Is(err, telebot.ErrUnauthorized) || errors.Is(err, telebot.ErrNotFound)
}

// SendMessage sends a text message to the specified chat.
func (tba *TelebotAdapter) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}

	recipient := &telebot.Chat{ID: recipientChatID} // Private chat, group or channel
	_, err := tba.bot.Send(recipient, text, options)
	return err
}
