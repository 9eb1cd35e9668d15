package telegram

import "gopkg.in/telebot.v3"

// Client is the outbound send collaborator. Reminder deliveries and handler
// replies go through it rather than the bot instance directly, keeping the
// app layer off the bot library.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
