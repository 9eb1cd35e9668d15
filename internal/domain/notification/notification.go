package notification

import "time"

// Notification is a single scheduled reminder owned by a chat.
// LocalID values are dense per chat: after any create or delete the ids of a
// chat's notifications are exactly 1..N in creation order. They are unique
// only within the chat, not globally.
type Notification struct {
	ChatID     int64
	LocalID    int
	Name       string
	OccursAt   time.Time // next firing moment, minute resolution
	Recurrence Recurrence
}
