package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"funolympics/internal/config"
	"funolympics/internal/dataset"
	"funolympics/internal/db"
	"funolympics/internal/jobs"
	"funolympics/internal/metrics"
	"funolympics/internal/middleware"
	"funolympics/internal/server"
	"funolympics/internal/views"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "funolympics")

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dashboard config")
	}

	// The dataset is loaded once and never changes while serving.
	ds, err := dataset.Load(cfg.DatasetPath,
		dataset.WithColumns(dataset.Columns{
			Date:      yamlCfg.Columns.Date,
			Country:   yamlCfg.Columns.Country,
			Continent: yamlCfg.Columns.Continent,
			Gender:    yamlCfg.Columns.Gender,
			Sport:     yamlCfg.Columns.Sport,
		}),
		dataset.WithSheet(cfg.DatasetSheet),
	)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatasetPath).Msg("failed to load dataset")
	}

	// Usage store (optional)
	var database *db.DB
	if cfg.UsageStoreEnabled() {
		database, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		log.Info().Msg("migrations completed successfully")
	}

	jobCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	if database != nil {
		retention := time.Duration(cfg.ExportRetentionDays) * 24 * time.Hour
		go jobs.NewExportPruner(database, time.Hour, retention).Start(jobCtx)
	}

	metrics.Init(database, ds.Len())

	if yamlCfg.IsViewDisabled(views.Home) {
		log.Warn().Msg("the home view cannot be disabled")
	}
	svc := views.NewService(ds, yamlCfg.EngagementMetrics, yamlCfg.DisabledViews)
	if len(svc.Metrics()) == 0 {
		log.Warn().Strs("configured", yamlCfg.EngagementMetrics).Msg("no engagement metric columns found in dataset")
	}

	srv := server.New(cfg, server.Options{})
	if err := srv.RegisterRoutes(ctx, svc, database); err != nil {
		log.Fatal().Err(err).Msg("failed to register routes")
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stopJobs()
	if err := srv.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
