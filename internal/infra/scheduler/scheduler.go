package scheduler

import (
	"context"
	"time"

	"reminder_bot/internal/app" // For NotificationService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DeliveryScheduler drives the periodic due-notification check. The cadence
// is a cron spec ("* * * * *" in the reference deployment, i.e. every
// minute); the due check itself matches on exact minute equality, so a
// slower cadence skips occurrences rather than batching them up.
type DeliveryScheduler struct {
	cronEngine   *cron.Cron
	notifService app.NotificationService
	logger       *logrus.Entry
	pollSpec     string
}

func NewDeliveryScheduler(
	notifService app.NotificationService,
	logger *logrus.Entry,
	pollSpec string,
) *DeliveryScheduler {
	return &DeliveryScheduler{
		cronEngine:   cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		notifService: notifService,
		logger:       logger,
		pollSpec:     pollSpec,
	}
}

func (s *DeliveryScheduler) Start() {
	s.logger.Info("Starting delivery scheduler...")

	_, err := s.cronEngine.AddFunc(s.pollSpec, func() {
		// Keep each tick well under the cadence so ticks never pile up.
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()

		if err := s.notifService.ProcessDueNotifications(ctx); err != nil {
			s.logger.WithError(err).Error("Due notification pass failed")
		}
	})
	if err != nil {
		s.logger.Fatalf("Could not add due-check cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.WithField("poll_spec", s.pollSpec).Info("Delivery scheduler started")
}

// Stop halts scheduling of future ticks and waits for an in-flight tick to
// finish its current pass.
func (s *DeliveryScheduler) Stop() {
	s.logger.Info("Stopping delivery scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Delivery scheduler gracefully stopped")
}
