package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reminder_bot/internal/app"
	"reminder_bot/internal/infra/config"
	idb "reminder_bot/internal/infra/database"
	"reminder_bot/internal/infra/logger"
	"reminder_bot/internal/infra/scheduler"
	"reminder_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. Driver: %s, Environment: %s, Poll spec: %q", cfg.DatabaseDriver, cfg.Environment, cfg.PollCronSpec)

	// Initialize Database Connection
	var db *sql.DB
	switch cfg.DatabaseDriver {
	case "postgres":
		db, err = idb.NewPostgresConnection(cfg.DatabaseURL)
	default:
		db, err = idb.NewSQLiteConnection(cfg.SQLitePath)
	}
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	if err := idb.Migrate(db, cfg.DatabaseDriver); err != nil {
		log.Fatalf("FATAL: Could not bootstrap database schema: %v", err)
	}

	// Initialize Repository
	notificationRepo := idb.NewSQLNotificationRepository(db)
	log.Info("Notification repository initialized.")

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := log.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Unhandled telebot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}

	// Initialize NotificationService
	reminderNotifier := telegram.NewReminderNotifier(telegram.NewTelebotAdapter(bot))
	notifService := app.NewNotificationService(
		notificationRepo,
		reminderNotifier,
		log.WithField("component", "notification_service"),
	)
	log.Info("Notification service initialized.")

	// Initialize DeliveryScheduler
	deliveryScheduler := scheduler.NewDeliveryScheduler(
		notifService,
		log.WithField("component", "scheduler"),
		cfg.PollCronSpec,
	)
	deliveryScheduler.Start()

	// Register Handlers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	telegram.RegisterBotHandlers(ctx, bot, notifService, cfg.AdminTelegramID, log.WithField("component", "telegram"))
	log.Info("Bot handlers registered.")

	log.Info("Application setup complete. Bot and Scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")
	deliveryScheduler.Stop()
	bot.Stop()
	log.Info("Application shut down gracefully.")
}
