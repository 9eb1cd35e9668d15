// internal/app/notification_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"reminder_bot/internal/domain/notification"
	"reminder_bot/internal/domain/schedule"

	"github.com/sirupsen/logrus"
)

// Notifier delivers a due reminder to its chat. The service hands over the
// bare name; presentation (prefixes, markup) belongs to the implementation.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, name string) error
}

// NotificationService covers the user-facing notification operations plus the
// periodic due-check pass driven by the scheduler.
type NotificationService interface {
	// Add validates the raw user input and stores the resulting notification.
	// Malformed input comes back as a *schedule.ValidationError; the caller
	// re-prompts the user instead of aborting.
	Add(ctx context.Context, chatID int64, input string) (*notification.Notification, error)
	List(ctx context.Context, chatID int64) ([]*notification.Notification, error)
	ListAll(ctx context.Context) ([]*notification.Notification, error)
	Remove(ctx context.Context, chatID int64, localID int) (*notification.Notification, error)
	// ProcessDueNotifications runs one delivery tick over all notifications.
	ProcessDueNotifications(ctx context.Context) error
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	repo     notification.Repository
	notifier Notifier
	logger   *logrus.Entry
	now      func() time.Time
}

func NewNotificationService(
	repo notification.Repository,
	notifier Notifier,
	logger *logrus.Entry,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *NotificationServiceImpl) Add(ctx context.Context, chatID int64, input string) (*notification.Notification, error) {
	parsed, err := schedule.Parse(input, s.now())
	if err != nil {
		return nil, err
	}

	n := &notification.Notification{
		ChatID:     chatID,
		Name:       parsed.Name,
		OccursAt:   parsed.OccursAt,
		Recurrence: parsed.Recurrence,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id":    n.ChatID,
		"local_id":   n.LocalID,
		"occurs_at":  n.OccursAt.Format("2006-01-02 15:04"),
		"recurrence": n.Recurrence,
	}).Info("Notification created")
	return n, nil
}

func (s *NotificationServiceImpl) List(ctx context.Context, chatID int64) ([]*notification.Notification, error) {
	items, err := s.repo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for chat %d: %w", chatID, err)
	}
	return items, nil
}

func (s *NotificationServiceImpl) ListAll(ctx context.Context) ([]*notification.Notification, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list all notifications: %w", err)
	}
	return items, nil
}

func (s *NotificationServiceImpl) Remove(ctx context.Context, chatID int64, localID int) (*notification.Notification, error) {
	removed, err := s.repo.Delete(ctx, chatID, localID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id":  chatID,
		"local_id": localID,
	}).Info("Notification removed")
	return removed, nil
}

// ProcessDueNotifications fires every notification whose occurrence equals the
// current minute. Matching is exact, not "<= now": a tick missed through
// downtime or clock skew silently skips that occurrence, with no catch-up.
// Per-item failures are isolated so one bad notification cannot stall the
// rest of the tick.
func (s *NotificationServiceImpl) ProcessDueNotifications(ctx context.Context) error {
	now := s.now().Truncate(time.Minute)

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read notifications for due check: %w", err)
	}

	for _, n := range items {
		if !n.OccursAt.Truncate(time.Minute).Equal(now) {
			continue
		}

		logCtx := s.logger.WithFields(logrus.Fields{
			"chat_id":  n.ChatID,
			"local_id": n.LocalID,
		})

		if err := s.notifier.Notify(ctx, n.ChatID, n.Name); err != nil {
			logCtx.WithError(err).Error("Failed to deliver notification; skipping item this tick")
			continue
		}
		logCtx.Info("Notification delivered")

		next, recurs := n.Recurrence.Advance(n.OccursAt)
		if !recurs {
			if _, err := s.repo.Delete(ctx, n.ChatID, n.LocalID); err != nil {
				logCtx.WithError(err).Error("CONSISTENCY: delivered notification could not be removed and may fire again")
			}
			continue
		}
		if err := s.repo.UpdateOccurrence(ctx, n.ChatID, n.LocalID, next); err != nil {
			logCtx.WithError(err).Error("CONSISTENCY: delivered notification could not be rescheduled; future occurrences are lost")
		}
	}

	return nil
}
