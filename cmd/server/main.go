// Package main is the entry point for the TickerMood sentiment service.
// It aggregates financial news per stock symbol, scores article sentiment
// with a pluggable engine, and serves windowed trend aggregates over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tickermood/tickermood/internal/clients/newsapi"
	"github.com/tickermood/tickermood/internal/config"
	"github.com/tickermood/tickermood/internal/database"
	"github.com/tickermood/tickermood/internal/modules/articles"
	"github.com/tickermood/tickermood/internal/modules/ingest"
	"github.com/tickermood/tickermood/internal/modules/sentiment"
	"github.com/tickermood/tickermood/internal/modules/symbols"
	"github.com/tickermood/tickermood/internal/modules/trends"
	"github.com/tickermood/tickermood/internal/scheduler"
	"github.com/tickermood/tickermood/internal/server"
	"github.com/tickermood/tickermood/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		errLog := logger.New(logger.Config{Level: "error"})
		errLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting TickerMood")

	// Database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Repositories
	articleRepo := articles.NewRepository(db.Conn(), log)
	symbolRepo := symbols.NewRepository(db.Conn(), log)

	// Seed tracked symbols from the YAML file, if one exists
	seedSymbols, err := cfg.LoadSymbols()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load symbols file")
	}
	if err := symbolRepo.Seed(seedSymbols); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed symbols")
	}

	// Sentiment engine and pipeline
	engine := sentiment.NewEngine(sentiment.Config{
		Strategy:     cfg.SentimentStrategy,
		InferenceURL: cfg.InferenceURL,
	}, log)
	pipeline := sentiment.NewPipeline(engine, articleRepo, log)

	// Aggregation and ingestion
	trendsSvc := trends.NewService(articleRepo, log)
	newsClient := newsapi.New(cfg.NewsAPIKey, log)
	ingestSvc := ingest.NewService(newsClient, articleRepo, log)

	// Background jobs
	sched := scheduler.New(log)
	if err := registerJobs(sched, cfg, ingestSvc, symbolRepo, pipeline, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:           cfg.Port,
		Log:            log,
		DB:             db,
		Engine:         engine,
		Pipeline:       pipeline,
		Trends:         trendsSvc,
		Ingest:         ingestSvc,
		Symbols:        symbolRepo,
		DevMode:        cfg.DevMode,
		ScoreBatchSize: cfg.ScoreBatchSize,
		NewsDaysBack:   cfg.NewsDaysBack,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	ingestSvc *ingest.Service,
	symbolRepo *symbols.Repository,
	pipeline *sentiment.Pipeline,
	log zerolog.Logger,
) error {
	// Without an API key the refresh job would fail every run; skip it and
	// rely on manual refreshes through the API.
	if cfg.NewsAPIKey != "" {
		refreshJob := scheduler.NewNewsRefreshJob(ingestSvc, symbolRepo, cfg.NewsDaysBack, log)
		if err := sched.AddJob(cfg.RefreshSchedule, refreshJob); err != nil {
			return err
		}
	} else {
		log.Warn().Msg("No NEWS_API_KEY set, scheduled news refresh disabled")
	}

	scoreJob := scheduler.NewScoreBacklogJob(pipeline, cfg.ScoreBatchSize, log)
	return sched.AddJob(cfg.ScoreSchedule, scoreJob)
}
