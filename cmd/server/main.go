package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbotrack/mbo-tracker/internal/api"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
	"github.com/mbotrack/mbo-tracker/internal/infrastructure/chat"
	"github.com/mbotrack/mbo-tracker/internal/infrastructure/config"
	"github.com/mbotrack/mbo-tracker/internal/infrastructure/db/mongo"
	"github.com/mbotrack/mbo-tracker/internal/infrastructure/db/redis"
	"github.com/mbotrack/mbo-tracker/internal/infrastructure/email"
	"github.com/mbotrack/mbo-tracker/internal/infrastructure/queue"
	"github.com/mbotrack/mbo-tracker/internal/infrastructure/scheduler"
	"github.com/mbotrack/mbo-tracker/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Notification channels ---
	dedup := redis.NewDedupStore(rdb)

	mailer, err := email.NewMailer(email.Config{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		Username:    cfg.SMTP.Username,
		Password:    cfg.SMTP.Password,
		From:        cfg.SMTP.From,
		ObserverBCC: cfg.Notify.ObserverEmail,
		Enabled:     cfg.SMTP.Enabled,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("mailer setup failed")
	}

	var messenger ports.Messenger
	if cfg.Slack.Enabled {
		messenger = chat.NewSlackMessenger(chat.Config{
			Token:      cfg.Slack.Token,
			ObserverID: cfg.Slack.ObserverID,
			BaseURL:    cfg.BaseURL,
		}, dedup, log)
	} else {
		messenger = chat.NewNoopMessenger(log)
	}

	// --- Quarter-end reminder ---
	if cfg.Scheduler.Enabled {
		dispatcher := queue.NewMailDispatcher(cfg.Scheduler.MailWorkers, mailer, log)
		dispatcher.Start(ctx)

		reminder := scheduler.NewReminder(mongo.NewUserRepository(db), dispatcher, log)
		if err := reminder.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("reminder scheduler failed to start")
		}
		defer reminder.Stop()
	}

	// --- HTTP ---
	e := api.NewRouter(cfg, db, rdb, mailer, messenger, dedup)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("mbo tracker started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
