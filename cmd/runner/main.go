package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"creatorpulse/internal/aggregator"
	"creatorpulse/internal/config"
	"creatorpulse/internal/delivery"
	"creatorpulse/internal/generator"
	"creatorpulse/internal/mailer"
	"creatorpulse/internal/repository"
	pkgconfig "creatorpulse/pkg/config"
	"creatorpulse/pkg/db"
	"creatorpulse/pkg/logger"
	pkgredis "creatorpulse/pkg/redis"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting delivery runner...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("llm_provider", cfg.LLM.Provider),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Error("Failed to init DB", zap.Error(err))
		os.Exit(1)
	}
	defer dbConn.Close()

	// Repositories
	scheduleRepo := repository.NewScheduleRepository(dbConn, log)
	sourceRepo := repository.NewSourceRepository(dbConn, log)
	styleRepo := repository.NewStyleRepository(dbConn, log)
	draftRepo := repository.NewDraftRepository(dbConn, log)
	emailLogRepo := repository.NewEmailLogRepository(dbConn, log)
	trendRepo := repository.NewTrendRepository(dbConn, log)

	// Collaborators
	gen, err := generator.New(cfg.LLM)
	if err != nil {
		log.Error("Failed to init generator", zap.Error(err))
		os.Exit(1)
	}
	sender := mailer.NewResendClient(cfg.Resend.APIKey, cfg.Resend.From)
	agg := aggregator.New(sourceRepo, log)

	runner := delivery.NewRunner(scheduleRepo, agg, styleRepo, gen, sender, log, delivery.Options{
		Window:        time.Duration(cfg.Delivery.WindowSeconds) * time.Second,
		UserTimeout:   time.Duration(cfg.Delivery.UserTimeoutSeconds) * time.Second,
		NumArticles:   cfg.Delivery.NumArticles,
		IncludeTrends: cfg.Delivery.IncludeTrends,
	}).
		WithDrafts(draftRepo).
		WithEmailLog(emailLogRepo).
		WithTrends(trendRepo)

	if cfg.Delivery.LeaseEnabled {
		rdb := pkgredis.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		runner = runner.WithLease(delivery.NewLease(rdb, 0, log))
	}

	if pkgconfig.GetEnv("RUN_MODE", "once") == "daemon" {
		runDaemon(runner, log)
		return
	}

	// One pass and exit. Per-user failures land in the report; only an
	// unreachable schedule store fails the whole invocation.
	report, err := runner.RunOnce(context.Background(), time.Now().UTC())
	if err != nil {
		log.Error("Delivery pass aborted", zap.Error(err))
		os.Exit(1)
	}
	logReport(log, report)
}

// runDaemon fires a pass at the top of every hour until SIGINT/SIGTERM.
func runDaemon(runner *delivery.Runner, log *zap.Logger) {
	c := cron.New()
	_, err := c.AddFunc("0 * * * *", func() {
		report, err := runner.RunOnce(context.Background(), time.Now().UTC())
		if err != nil {
			log.Error("Delivery pass aborted", zap.Error(err))
			return
		}
		logReport(log, report)
	})
	if err != nil {
		log.Error("Failed to register cron job", zap.Error(err))
		os.Exit(1)
	}

	c.Start()
	log.Info("Delivery runner daemon started, passes fire hourly")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down delivery runner...")
	<-c.Stop().Done()
	log.Info("Delivery runner shutdown complete")
}

func logReport(log *zap.Logger, report *delivery.RunReport) {
	fields := []zap.Field{
		zap.String("run_id", report.RunID),
		zap.Int("attempted", report.Attempted),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", len(report.Failed)),
		zap.Duration("duration", report.Duration),
	}
	for _, f := range report.Failed {
		log.Warn("User delivery failed",
			zap.String("user_id", f.UserID),
			zap.String("stage", f.Stage),
			zap.String("category", f.Category),
			zap.String("error", f.Error),
		)
	}
	log.Info("Delivery pass report", fields...)
}
