package notification

import (
	"context"
	"time"
)

// Repository defines storage operations for notifications. Implementations
// must preserve the dense local id invariant (see Notification) after every
// Create and Delete, and must serialize id-mutating operations per chat.
type Repository interface {
	// Create inserts the notification, assigning n.LocalID = count(chat)+1.
	// The count and the insert happen in one transaction.
	Create(ctx context.Context, n *Notification) error
	ListByChat(ctx context.Context, chatID int64) ([]*Notification, error)
	ListAll(ctx context.Context) ([]*Notification, error)
	// UpdateOccurrence moves an existing notification to its next occurrence.
	// A (chatID, localID) pair that no longer exists is a silent no-op; the
	// caller is expected to have just read the row.
	UpdateOccurrence(ctx context.Context, chatID int64, localID int, next time.Time) error
	// Delete removes the notification and, in the same transaction, renumbers
	// the chat's higher local ids down by one. Returns the removed row, or
	// the repository's not-found error when no row matches.
	Delete(ctx context.Context, chatID int64, localID int) (*Notification, error)
}
