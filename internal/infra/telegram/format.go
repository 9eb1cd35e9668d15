// internal/infra/telegram/format.go
package telegram

import (
	"fmt"
	"strings"

	"reminder_bot/internal/domain/notification"
)

// displayTimeLayout shows occurrences without seconds; the core tracks them
// at minute resolution anyway.
const displayTimeLayout = "2006-01-02 15:04"

var recurrenceLabels = map[notification.Recurrence]string{
	notification.Once:    "один раз",
	notification.Daily:   "ежедневно",
	notification.Weekly:  "еженедельно",
	notification.Monthly: "ежемесячно",
	notification.Yearly:  "ежегодно",
}

func recurrenceLabel(r notification.Recurrence) string {
	if label, ok := recurrenceLabels[r]; ok {
		return label
	}
	return string(r)
}

// formatNotificationList renders a chat's notifications for the list replies.
func formatNotificationList(items []*notification.Notification) string {
	var b strings.Builder
	b.WriteString("📋 Ваши заметки:\n\n")
	for _, n := range items {
		fmt.Fprintf(&b, "%d. <b>%s</b>\n\tДата: %s\n\tПериодичность: %s\n\n",
			n.LocalID, n.Name, n.OccursAt.Format(displayTimeLayout), recurrenceLabel(n.Recurrence))
	}
	return b.String()
}

// formatNotificationOneline renders a single notification for confirmations.
func formatNotificationOneline(n *notification.Notification) string {
	return fmt.Sprintf("%d. <b>%s</b> (%s, %s)",
		n.LocalID, n.Name, n.OccursAt.Format(displayTimeLayout), recurrenceLabel(n.Recurrence))
}
