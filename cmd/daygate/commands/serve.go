package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/julienv/daygate/internal/api"
	"github.com/julienv/daygate/internal/api/handlers"
	"github.com/julienv/daygate/internal/datectx"
	"github.com/julienv/daygate/internal/external/nager"
	"github.com/julienv/daygate/internal/external/onthisday"
	"github.com/julienv/daygate/internal/payments"
	"github.com/julienv/daygate/internal/scheduler"
	"github.com/julienv/daygate/internal/scheduler/jobs"
	"github.com/julienv/daygate/pkg/config"
	"github.com/julienv/daygate/pkg/database"
	"github.com/julienv/daygate/pkg/httputil"
	"github.com/julienv/daygate/pkg/logger"
	"github.com/julienv/daygate/pkg/redis"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the HTTP API server.

Endpoints:
  GET  /health                        - Health check
  GET  /.well-known/agent.json       - Service descriptor
  GET  /api/today                     - Free daily overview
  GET  /api/holidays                  - Public holidays (priced)
  GET  /api/events                    - Historical events (priced)
  GET  /api/births                    - Notable births (priced)
  GET  /api/context                   - Full date context (priced)
  POST /api/compare                   - Compare dates (priced)
  GET  /api/analytics/summary         - Payment summary
  GET  /api/analytics/transactions    - Transaction list
  GET  /api/analytics/export          - CSV export
  WS   /api/analytics/stream          - Live payment stream

Example:
  go run ./cmd/daygate serve
  go run ./cmd/daygate serve --port 8080`,
	RunE: runServer,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "override listen port")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// Upstream clients, each with its own timeout and politeness cap.
	holidayHTTP := httputil.NewWithTimeout(log, cfg.Holidays.Timeout).WithRateLimit(cfg.Holidays.RateRPS)
	feedHTTP := httputil.NewWithTimeout(log, cfg.OnThisDay.Timeout).WithRateLimit(cfg.OnThisDay.RateRPS)

	var holidaySource datectx.HolidaySource = nager.NewClient(holidayHTTP, cfg.Holidays.BaseURL, log)
	feedSource := onthisday.NewClient(feedHTTP, cfg.OnThisDay.BaseURL, log)

	// Optional Redis cache in front of the holiday provider.
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	if redisClient.Enabled() {
		holidaySource = datectx.NewCachedHolidaySource(holidaySource, redis.NewCache(redisClient, "daygate"), log)
		log.Info("Holiday cache enabled")
	}

	agg := datectx.New(holidaySource, feedSource, log)

	// Payment ledger: Postgres when configured, in-memory otherwise.
	tracker, closeDB, err := buildTracker(cfg, log)
	if err != nil {
		return err
	}
	if closeDB != nil {
		defer closeDB()
	}

	hub := payments.NewHub(log)
	defer hub.Close()

	dates := handlers.NewDateHandler(agg, log)
	analytics := handlers.NewAnalyticsHandler(tracker, cfg.Payments.Currency, log)
	registry := api.BuildRegistry(dates, analytics, cfg.Payments)

	wellKnown := handlers.NewWellKnownHandler(handlers.AgentDescriptor{
		Name:        "daygate",
		Description: "Date context API: holidays, historical events and notable births",
		URL:         cfg.BaseURL,
		IconURL:     cfg.BaseURL + "/icon.png",
		Payments:    true,
		Currency:    cfg.Payments.Currency,
		Endpoints:   api.Directory(registry, cfg.Payments.Currency),
	}, cfg.IconPath, log)

	router := api.NewRouter(api.RouterDeps{
		Registry:  registry,
		Analytics: analytics,
		WellKnown: wellKnown,
		Tracker:   tracker,
		Hub:       hub,
		Logger:    log,
	})

	server := api.New(cfg, log, router)

	// Cache warmup on a schedule, only useful with the cache in front.
	if cfg.WarmupEnabled && redisClient.Enabled() {
		sched := scheduler.New(log)
		warmup := jobs.NewHolidayWarmup(holidaySource, []string{datectx.OverviewCountry}, cfg.WarmupSchedule, log)
		if err := sched.AddJob(warmup); err != nil {
			return fmt.Errorf("schedule warmup: %w", err)
		}
		sched.Start()
		defer sched.Stop()

		// Warm immediately instead of waiting for the first tick.
		if err := sched.RunJob(warmup.Name()); err != nil {
			log.WithError(err).Warn("Initial warmup failed to start")
		}
	}

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\nServer running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// buildTracker picks the payment ledger backend. DATABASE_URL selects the
// durable Postgres ledger; without it payments live in process memory.
func buildTracker(cfg *config.Config, log *logger.Logger) (payments.Tracker, func(), error) {
	if cfg.Database.URL == "" {
		log.Info("Using in-memory payment ledger")
		return payments.NewMemoryTracker(cfg.Payments.Currency), nil, nil
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracker, err := payments.NewPostgresTracker(ctx, db.Pool, cfg.Payments.Currency)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("initialize payment ledger: %w", err)
	}

	log.Info("Using Postgres payment ledger")
	return tracker, db.Close, nil
}
