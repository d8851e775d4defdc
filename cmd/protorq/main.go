package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/protorq/protorq/internal/app"
	"github.com/protorq/protorq/internal/observability"
	"github.com/protorq/protorq/internal/platform/cache"
	"github.com/protorq/protorq/internal/platform/db"
	"github.com/protorq/protorq/internal/platform/objectstore"
	"github.com/protorq/protorq/internal/sales/leads"
	"github.com/protorq/protorq/internal/sales/products"
	"github.com/protorq/protorq/internal/sales/quotations"
	locks "github.com/protorq/protorq/internal/shared"
	"github.com/protorq/protorq/jobs"
	"github.com/protorq/protorq/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.AppEnv, cfg.SentryRelease)
	if err != nil {
		logger.Warn("init sentry", slog.Any("error", err))
	}
	defer flushSentry()

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	metrics := observability.NewMetrics()

	opts := quotations.Options{
		Metrics:         quotations.NewMetrics(metrics.Registerer()),
		DefaultCurrency: cfg.DefaultCurrency,
	}

	redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		logger.Warn("redis unavailable, quotation locking and delivery disabled", slog.Any("error", err))
		opts.Locker = locks.NoopLocker{}
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		opts.Locker = locks.NewRedisLocker(redisClient, cfg.QuotationLockTTL)
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	var jobHandler *jobs.Handler
	if redisClient != nil {
		jobClient, err := jobs.NewClient(redisOpts)
		if err != nil {
			logger.Error("init job client", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		opts.Notifier = jobClient

		inspector := asynq.NewInspector(redisOpts)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	} else {
		jobHandler = jobs.NewHandler(nil, logger)
	}

	archiveCfg := objectstore.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	}
	if archiveCfg.Enabled() {
		archive, err := objectstore.New(ctx, archiveCfg)
		if err != nil {
			logger.Warn("object store unavailable, pdf archive disabled", slog.Any("error", err))
		} else {
			opts.Archive = archive
		}
	}

	reportClient := report.NewClient(cfg.GotenbergURL, cfg.GotenbergTimeout)
	reportHandler := report.NewHandler(reportClient, logger)

	renderer, err := quotations.NewRenderer(reportClient)
	if err != nil {
		logger.Error("init quotation renderer", slog.Any("error", err))
		os.Exit(1)
	}

	leadRepo := leads.NewRepository(dbpool)
	leadService := leads.NewService(leadRepo, logger)
	quotationService := quotations.NewService(leads.NewQuotationStore(leadRepo), renderer, logger, opts)
	productService := products.NewService(products.NewRepository(dbpool), logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		QuotationHandler: quotations.NewHandler(logger, quotationService),
		LeadHandler:      leads.NewHandler(logger, leadService),
		ProductHandler:   products.NewHandler(logger, productService),
		ReportHandler:    reportHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
