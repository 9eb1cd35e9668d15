// internal/infra/telegram/notifier.go
package telegram

import (
	"context"
	"fmt"

	domainTelegram "reminder_bot/internal/domain/telegram"
)

// ReminderNotifier adapts the Telegram client to the app.Notifier contract.
// The core hands over the bare notification name; the reminder framing is
// presentation and lives here.
type ReminderNotifier struct {
	client domainTelegram.Client
}

func NewReminderNotifier(client domainTelegram.Client) *ReminderNotifier {
	return &ReminderNotifier{client: client}
}

func (n *ReminderNotifier) Notify(_ context.Context, chatID int64, name string) error {
	return n.client.SendMessage(chatID, fmt.Sprintf("🔔 Напоминание:\n%s", name), nil)
}
