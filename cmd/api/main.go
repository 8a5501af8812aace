package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	ingestHttp "stream-analytics-service/internal/ingest/adapters/http/fiber"
	ingestRepoPg "stream-analytics-service/internal/ingest/adapters/postgres"
	ingestUsecase "stream-analytics-service/internal/ingest/core/usecase"

	reportingHttp "stream-analytics-service/internal/reporting/adapters/http/fiber"
	reportingSnapshot "stream-analytics-service/internal/reporting/adapters/snapshot"
	reportingDomain "stream-analytics-service/internal/reporting/core/domain"
	reportingUsecase "stream-analytics-service/internal/reporting/core/usecase"

	"stream-analytics-service/internal/config"
	"stream-analytics-service/internal/logging"
	"stream-analytics-service/internal/telemetry"

	"github.com/goccy/go-json"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "stream-analytics-service/docs"
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// DB connection
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		logging.Error().Err(err).Msg("failed to open postgres")
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		logging.Error().Err(err).Msg("failed to ping postgres")
		os.Exit(1)
	}

	// Telemetry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := telemetry.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		logging.Error().Err(err).Msg("failed to register collectors")
		os.Exit(1)
	}

	// Repositories and usecases
	tableRepo := ingestRepoPg.NewTableRepository(
		ingestRepoPg.NewSQLDB(db), cfg.DeveloperIDs, cfg.FetchPageSize)
	refreshUC := ingestUsecase.NewRefreshSnapshotUseCase(tableRepo, metrics)

	reportOpts := reportingUsecase.Options{
		WeekRegime:         reportingDomain.WeekEpochFixed,
		WeekAnchor:         cfg.WeekAnchorDay(),
		WeekEpoch:          cfg.WeekEpochTime(),
		MinURLViews:        cfg.MinURLViews,
		IncludeLivestreams: cfg.IncludeLivestreams,
	}
	if cfg.WeekRegime == "calendar" {
		reportOpts.WeekRegime = reportingDomain.WeekCalendar
	}
	provider := reportingSnapshot.NewProvider(refreshUC)
	reportUC := reportingUsecase.NewComputeReportUseCase(provider, reportOpts)

	// Warm the snapshot cache. A failed upstream fetch is not fatal: the
	// service starts with an empty cache and the next /refresh retries.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if _, err := refreshUC.Execute(warmCtx, cfg.ForceFullReload); err != nil {
		logging.Warn().Err(err).Msg("initial snapshot refresh failed")
	}
	warmCancel()

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})

	refreshHandler := ingestHttp.NewRefreshHandler(refreshUC)
	app.Post("/refresh", refreshHandler.RefreshSnapshot)

	reportHandler := reportingHttp.NewReportHandler(reportUC, metrics)
	app.Get("/reports", reportHandler.GetReport)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Prometheus
	app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			logging.Error().Err(err).Msg("fiber stopped")
		}
	}()

	logging.Info().Str("addr", cfg.Addr).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logging.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logging.Error().Err(err).Msg("fiber shutdown error")
	}

	logging.Info().Msg("server exiting")
}
