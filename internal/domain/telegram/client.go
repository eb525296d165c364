package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for sending messages via a Telegram bot.
// The poll loop only knows about this interface, never about telebot itself.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
