package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/notification"
	"homework_status_bot/internal/infra/config"
	idb "homework_status_bot/internal/infra/database"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

const (
	shutdownGrace  = 30 * time.Second
	journalTimeout = 10 * time.Second
)

func main() {
	// Logging has to work before the configuration is known to be valid.
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("ENVIRONMENT"))

	if err := run(); err != nil {
		logger.For("main").WithError(err).Fatal("Bot stopped")
	}
}

// run returns only on shutdown or on a fatal startup condition
// (missing configuration or a token Telegram refuses).
func run() error {
	mainLogger := logger.For("main")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load application configuration: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.Environment)

	mainLogger.WithFields(logrus.Fields{
		"environment":   cfg.Environment,
		"poll_interval": cfg.PollInterval.String(),
		"chat_id":       cfg.TelegramChatID,
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	journal, closeJournal := openJournal(ctx, cfg.DatabaseURL, logger.For("journal"))
	defer closeJournal()

	bot, err := telegram.ConnectBot(ctx, cfg.TelegramToken, cfg.TelegramAPIURL, cfg.RequestTimeout, telegram.DefaultBackoff, logger.For("telebot"))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			mainLogger.Info("Shutdown requested before Telegram became reachable")
			return nil
		}
		return fmt.Errorf("could not create Telegram bot: %w", err)
	}

	notifier := app.NewNotifier(telegram.NewTelebotAdapter(bot), cfg.TelegramChatID, journal, logger.For("notifier"))
	fetcher := practicum.NewClient(cfg.Endpoint, cfg.PracticumToken, cfg.RequestTimeout, logger.For("practicum"))
	poller := app.NewPoller(fetcher, notifier, logger.For("poller"))
	tracker := app.NewTracker(poller, time.Now(), logger.For("tracker"))

	telegram.RegisterBotCommands(ctx, bot, cfg.TelegramChatID, tracker, journal, logger.For("telegram"))

	// One cycle makes at most one fetch and two sends.
	cycleTimeout := 3*cfg.RequestTimeout + 2*time.Second
	pollScheduler := scheduler.NewPollScheduler(tracker, logger.For("scheduler"), cfg.PollInterval, cycleTimeout)
	pollScheduler.Start()

	go bot.Start()
	mainLogger.Info("Bot and poll scheduler are running")

	<-ctx.Done() // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	pollScheduler.Stop(shutdownGrace)
	bot.Stop()
	mainLogger.Info("Application shut down gracefully.")
	return nil
}

// openJournal connects the optional delivery journal. The journal is an audit trail,
// so an unreachable database only disables it; the returned close func is never nil.
func openJournal(ctx context.Context, databaseURL string, log *logrus.Entry) (notification.Journal, func()) {
	noop := func() {}
	if databaseURL == "" {
		return nil, noop
	}

	connectCtx, cancel := context.WithTimeout(ctx, journalTimeout)
	defer cancel()

	db, err := idb.NewPostgresConnection(connectCtx, databaseURL)
	if err != nil {
		log.WithError(err).Warn("Database unreachable, notification journal disabled")
		return nil, noop
	}

	repo := idb.NewPostgresNotificationRepository(db)
	if err := repo.EnsureSchema(connectCtx); err != nil {
		log.WithError(err).Warn("Could not prepare notification journal, journal disabled")
		db.Close()
		return nil, noop
	}

	log.Info("Notification journal enabled")
	return repo, func() { db.Close() }
}
