// internal/app/notifier.go
package app

import (
	"context"
	"database/sql"
	"time"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/domain/notification"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Telegram allows roughly one message per second into a single chat.
const defaultSendInterval = time.Second

// Notifier delivers composed texts to the configured chat.
// Delivery failures are logged and reported back, but they never turn into a failed poll cycle.
type Notifier struct {
	telegramClient domainTelegram.Client
	chatID         int64
	limiter        *rate.Limiter
	journal        notification.Journal // nil when the journal is disabled
	logger         *logrus.Entry
}

func NewNotifier(tc domainTelegram.Client, chatID int64, journal notification.Journal, logger *logrus.Entry) *Notifier {
	return &Notifier{
		telegramClient: tc,
		chatID:         chatID,
		limiter:        rate.NewLimiter(rate.Every(defaultSendInterval), 1),
		journal:        journal,
		logger:         logger,
	}
}

// Notify sends the event text. The returned error, if any, is a *homework.NotificationDeliveryError.
func (n *Notifier) Notify(ctx context.Context, ev notification.Event) error {
	entry := n.logger.WithFields(logrus.Fields{
		"kind":    ev.Kind,
		"chat_id": n.chatID,
	})

	err := n.limiter.Wait(ctx)
	if err == nil {
		err = n.telegramClient.SendMessage(n.chatID, ev.Text, &telebot.SendOptions{DisableWebPagePreview: true})
	}

	delivery := &notification.Delivery{
		ChatID:    n.chatID,
		Kind:      ev.Kind,
		Text:      ev.Text,
		Delivered: err == nil,
	}
	if err != nil {
		delivery.Error = sql.NullString{String: err.Error(), Valid: true}
		entry.WithError(err).Error("Failed to send notification")
	} else {
		entry.Info("Notification sent")
	}
	n.record(ctx, delivery)

	if err != nil {
		return &homework.NotificationDeliveryError{Err: err}
	}
	return nil
}

func (n *Notifier) record(ctx context.Context, d *notification.Delivery) {
	if n.journal == nil {
		return
	}
	if err := n.journal.Create(ctx, d); err != nil {
		n.logger.WithError(err).Warn("Failed to record notification delivery")
	}
}
