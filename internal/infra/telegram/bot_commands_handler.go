// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/notification"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	recentDeliveriesLimit = 5
	startText             = "Я слежу за статусом проверки домашней работы и напишу сюда, когда он изменится. /status - текущее состояние."
)

// StateSource exposes the poll state to the /status command.
type StateSource interface {
	Snapshot() app.PollState
}

// RegisterBotCommands wires /start and /status. Both answer only in the configured chat.
// journal may be nil when the delivery journal is disabled.
func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	chatID int64,
	state StateSource,
	journal notification.Journal,
	baseLogger *logrus.Entry, // For contextual logging
) {
	commandLogger := baseLogger.WithField("handler_group", "commands")

	b.Handle("/start", startHandler(chatID, commandLogger.WithField("command", "/start")))
	b.Handle("/status", statusHandler(ctx, chatID, state, journal, commandLogger.WithField("command", "/status")))
}

func startHandler(chatID int64, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if !fromChat(c, chatID, logger) {
			return nil
		}
		logger.Info("Processing /start command")
		return c.Send(startText)
	}
}

func statusHandler(ctx context.Context, chatID int64, state StateSource, journal notification.Journal, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if !fromChat(c, chatID, logger) {
			return nil
		}
		logger.Info("Processing /status command")

		var recent []*notification.Delivery
		if journal != nil {
			var err error
			recent, err = journal.ListRecent(ctx, recentDeliveriesLimit)
			if err != nil {
				logger.WithError(err).Error("Failed to list recent deliveries")
			}
		}
		return c.Send(FormatStatus(state.Snapshot(), recent))
	}
}

// fromChat reports whether the update came from the configured chat.
func fromChat(c telebot.Context, chatID int64, logger *logrus.Entry) bool {
	chat := c.Chat()
	if chat == nil {
		logger.Warn("Command without chat ignored")
		return false
	}
	if chat.ID != chatID {
		logger.WithField("chat_id", chat.ID).Warn("Command from unknown chat ignored")
		return false
	}
	return true
}

// FormatStatus renders the /status reply.
func FormatStatus(st app.PollState, recent []*notification.Delivery) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Проверяю изменения с %s\n", st.Watermark.Format(time.RFC3339)))
	if st.LastErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("Последняя ошибка: %s\n", st.LastErrorMessage))
	} else {
		sb.WriteString("Ошибок нет\n")
	}
	if len(recent) > 0 {
		sb.WriteString("\nПоследние уведомления:\n")
		for _, d := range recent {
			mark := "✓"
			if !d.Delivered {
				mark = "✗"
			}
			sb.WriteString(fmt.Sprintf("%s %s [%s] %s\n", mark, d.CreatedAt.Format("2006-01-02 15:04"), d.Kind, d.Text))
		}
	}
	return sb.String()
}
