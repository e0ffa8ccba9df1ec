package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tradeflow/tradeflow/internal/app"
	jobmetrics "github.com/tradeflow/tradeflow/internal/jobs"
	"github.com/tradeflow/tradeflow/internal/licenses"
	"github.com/tradeflow/tradeflow/internal/platform/cache"
	"github.com/tradeflow/tradeflow/internal/platform/db"
	"github.com/tradeflow/tradeflow/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{ApplicationName: "tradeflow-worker"})
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := jobmetrics.NewMetrics(nil)

	licenseService := licenses.NewService(licenses.NewRepository(pool), logger)
	licenseJob := jobs.NewLicenseScanJob(licenseService, logger, metrics)
	handlers := []jobs.TaskHandler{
		{Type: jobs.TaskLicenseScan, Handler: licenseJob.Handle},
	}

	if cfg.ArchiveEnabled {
		services, err := app.NewServices(cfg, pool, redisClient, nil, logger)
		if err != nil {
			logger.Error("init services", slog.Any("error", err))
			os.Exit(1)
		}
		archiver, err := app.NewArchiver(ctx, cfg)
		if err != nil {
			logger.Error("init archiver", slog.Any("error", err))
			os.Exit(1)
		}
		archiveJob := jobs.NewArchiveJob(services.Generator, archiver, logger, metrics)
		handlers = append(handlers, jobs.TaskHandler{Type: jobs.TaskPDFArchive, Handler: archiveJob.Handle})
	}

	scanTask, err := jobs.NewLicenseScanTask(time.Time{})
	if err != nil {
		logger.Error("build license scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers:  handlers,
		Cron: []jobs.CronRegistration{
			{Spec: cfg.LicenseScanCron, Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker starting", slog.Bool("archive", cfg.ArchiveEnabled), slog.String("license_scan_cron", cfg.LicenseScanCron))
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
