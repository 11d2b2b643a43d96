package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/kursadbilgin/notify-relay/internal/channel"
	"github.com/kursadbilgin/notify-relay/internal/config"
	"github.com/kursadbilgin/notify-relay/internal/infra/postgresql"
	"github.com/kursadbilgin/notify-relay/internal/infra/postgresql/migrations"
	infraredis "github.com/kursadbilgin/notify-relay/internal/infra/redis"
	"github.com/kursadbilgin/notify-relay/internal/observability"
	"github.com/kursadbilgin/notify-relay/internal/queue"
	"github.com/kursadbilgin/notify-relay/internal/repository"
	"github.com/kursadbilgin/notify-relay/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	locker, err := infraredis.NewRedisLocker(rdb)
	if err != nil {
		logger.Fatal("redis locker init failed", zap.Error(err))
	}

	rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("rabbitmq initialization failed", zap.Error(err))
	}
	defer rabbit.Close()

	publisher := queue.NewRabbitMQPublisher(rabbit)
	consumer := queue.NewRabbitMQConsumer(rabbit, cfg.WorkerConcurrency, logger)

	notificationRepo := repository.NewGormNotificationRepo(db)
	recipientRepo := repository.NewGormRecipientRepo(db)
	attemptRepo := repository.NewGormAttemptRepo(db)

	registry := channel.NewRegistry(
		channel.NewEmailTransport(channel.EmailConfig{
			ServerToken:  cfg.PostmarkServerToken,
			AccountToken: cfg.PostmarkAccountToken,
			FromAddress:  cfg.DefaultFromEmail,
		}),
		channel.NewSMSTransport(),
		channel.NewTelegramTransport(channel.TelegramConfig{
			BotToken: cfg.TelegramBotToken,
			BaseURL:  cfg.TelegramAPIBaseURL,
		}),
	)

	metrics := observability.NewMetrics()

	orchestrator, err := service.NewOrchestrator(notificationRepo, recipientRepo, attemptRepo, registry, logger)
	if err != nil {
		logger.Fatal("orchestrator init failed", zap.Error(err))
	}
	orchestrator.SetMetrics(metrics)

	worker, err := service.NewWorkerService(notificationRepo, consumer, orchestrator, locker, cfg.WorkerConcurrency, logger)
	if err != nil {
		logger.Fatal("worker init failed", zap.Error(err))
	}
	worker.SetMetrics(metrics)

	scanner, err := service.NewRetryScanner(
		notificationRepo,
		publisher,
		time.Duration(cfg.RetryScanSeconds)*time.Second,
		cfg.RetryScanLimit,
		logger,
	)
	if err != nil {
		logger.Fatal("retry scanner init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return worker.Start(groupCtx) })
	g.Go(func() error { return scanner.Start(groupCtx) })

	logger.Info("notify-relay worker started",
		zap.Int("concurrency", cfg.WorkerConcurrency),
		zap.Int("retryScanSeconds", cfg.RetryScanSeconds),
	)

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Fatal("worker stopped with error", zap.Error(err))
	}
	logger.Info("notify-relay worker stopped")
}
