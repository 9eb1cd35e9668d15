// internal/infra/database/sql_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"reminder_bot/internal/domain/notification"
)

// Custom errors
var ErrNotificationNotFound = fmt.Errorf("notification not found")

// occursAtLayout is the stored form of a notification's occurrence. Seconds
// are always zero; minute resolution is the contract. The textual form sorts
// chronologically and scans identically on both drivers.
const occursAtLayout = "2006-01-02 15:04:05"

// SQLNotificationRepository implements notification.Repository over
// database/sql. The same queries run unchanged on PostgreSQL (lib/pq) and
// SQLite (modernc.org/sqlite); both accept $1-style placeholders.
type SQLNotificationRepository struct {
	db *sql.DB

	// chatLocks serializes id-mutating operations per chat. The transaction
	// alone is not enough: two concurrent count-then-insert transactions for
	// the same chat could both observe the same MAX(local_id).
	chatLocks sync.Map // chat_id -> *sync.Mutex
}

func NewSQLNotificationRepository(db *sql.DB) *SQLNotificationRepository {
	return &SQLNotificationRepository{db: db}
}

func (r *SQLNotificationRepository) chatLock(chatID int64) *sync.Mutex {
	mu, _ := r.chatLocks.LoadOrStore(chatID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (r *SQLNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	mu := r.chatLock(n.ChatID)
	mu.Lock()
	defer mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for create: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	var nextID int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(local_id), 0) + 1 FROM notifications WHERE chat_id = $1`,
		n.ChatID).Scan(&nextID)
	if err != nil {
		return fmt.Errorf("error computing next local id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO notifications (chat_id, local_id, name, occurs_at, recurrence)
          VALUES ($1, $2, $3, $4, $5)`,
		n.ChatID, nextID, n.Name, n.OccursAt.Format(occursAtLayout), string(n.Recurrence))
	if err != nil {
		return fmt.Errorf("error inserting notification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing notification create: %w", err)
	}

	n.LocalID = nextID
	return nil
}

func (r *SQLNotificationRepository) ListByChat(ctx context.Context, chatID int64) ([]*notification.Notification, error) {
	query := `SELECT chat_id, local_id, name, occurs_at, recurrence
               FROM notifications WHERE chat_id = $1 ORDER BY local_id`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("error querying notifications by chat: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *SQLNotificationRepository) ListAll(ctx context.Context) ([]*notification.Notification, error) {
	query := `SELECT chat_id, local_id, name, occurs_at, recurrence
               FROM notifications ORDER BY chat_id, local_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying all notifications: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

// UpdateOccurrence is a silent no-op when the row has already vanished; the
// caller is expected to have just read it.
func (r *SQLNotificationRepository) UpdateOccurrence(ctx context.Context, chatID int64, localID int, next time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET occurs_at = $1 WHERE chat_id = $2 AND local_id = $3`,
		next.Format(occursAtLayout), chatID, localID)
	if err != nil {
		return fmt.Errorf("error updating notification occurrence: %w", err)
	}
	return nil
}

func (r *SQLNotificationRepository) Delete(ctx context.Context, chatID int64, localID int) (*notification.Notification, error) {
	mu := r.chatLock(chatID)
	mu.Lock()
	defer mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for delete: %w", err)
	}
	defer tx.Rollback()

	removed := &notification.Notification{ChatID: chatID, LocalID: localID}
	var occursAt, recurrence string
	err = tx.QueryRowContext(ctx,
		`SELECT name, occurs_at, recurrence FROM notifications WHERE chat_id = $1 AND local_id = $2`,
		chatID, localID).Scan(&removed.Name, &occursAt, &recurrence)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("error fetching notification for delete: %w", err)
	}
	removed.OccursAt, err = time.ParseInLocation(occursAtLayout, occursAt, time.Local)
	if err != nil {
		return nil, fmt.Errorf("error parsing stored occurrence %q: %w", occursAt, err)
	}
	removed.Recurrence = notification.Recurrence(recurrence)

	_, err = tx.ExecContext(ctx,
		`DELETE FROM notifications WHERE chat_id = $1 AND local_id = $2`, chatID, localID)
	if err != nil {
		return nil, fmt.Errorf("error deleting notification: %w", err)
	}

	// Close the gap: every higher local id of this chat moves down by one.
	_, err = tx.ExecContext(ctx,
		`UPDATE notifications SET local_id = local_id - 1 WHERE chat_id = $1 AND local_id > $2`,
		chatID, localID)
	if err != nil {
		return nil, fmt.Errorf("error renumbering notifications after delete: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing notification delete: %w", err)
	}

	return removed, nil
}

// Helper to scan multiple rows
func scanNotifications(rows *sql.Rows) ([]*notification.Notification, error) {
	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		n := &notification.Notification{}
		var occursAt, recurrence string
		if err := rows.Scan(&n.ChatID, &n.LocalID, &n.Name, &occursAt, &recurrence); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		parsed, err := time.ParseInLocation(occursAtLayout, occursAt, time.Local)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored occurrence %q: %w", occursAt, err)
		}
		n.OccursAt = parsed
		n.Recurrence = notification.Recurrence(recurrence)
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return notifications, nil
}
