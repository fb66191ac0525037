package app

import (
	"context"
	"fmt"

	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/handlers"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/services/analytics"
	"github.com/lunahealth/luna/internal/services/chunking"
	"github.com/lunahealth/luna/internal/services/embeddings"
	"github.com/lunahealth/luna/internal/services/extraction"
	"github.com/lunahealth/luna/internal/services/knowledge"
	"github.com/lunahealth/luna/internal/services/report"
	"github.com/lunahealth/luna/internal/services/tracking"
	"github.com/lunahealth/luna/internal/storage/badger"
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager *badger.Manager

	// Core pipeline services
	ExtractionService *extraction.Service
	ChunkingService   *chunking.Chunker
	EmbeddingService  interfaces.EmbeddingService
	KnowledgeService  *knowledge.Service

	// Tracking, analytics and reporting
	TrackingService  *tracking.Service
	AnalyticsService *analytics.Service
	ReportService    interfaces.ReportService

	// HTTP handlers
	KnowledgeHandler *handlers.KnowledgeHandler
	TrackingHandler  *handlers.TrackingHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	StatusHandler    *handlers.StatusHandler

	scheduler *cron.Cron
}

// New wires the application from configuration. The knowledge mode
// decides whether a Gemini encoder is required: curated mode runs
// without an API key.
func New(ctx context.Context, config *common.Config, logger arbor.ILogger) (*App, error) {
	storageManager, err := badger.NewManager(logger, &config.Storage.Badger, config.Corpus.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a := &App{
		Config:            config,
		Logger:            logger,
		StorageManager:    storageManager,
		ExtractionService: extraction.NewService(logger),
		ChunkingService:   chunking.NewChunker(&config.Chunking, logger),
		ReportService:     report.NewService(logger),
	}

	if config.Knowledge.Mode != "curated" {
		encoder, err := embeddings.NewGeminiEncoder(ctx, &config.Gemini, config.Embedding.Dimension, logger)
		if err != nil {
			storageManager.Close()
			return nil, err
		}
		a.EmbeddingService, err = embeddings.NewService(encoder, &config.Embedding, logger)
		if err != nil {
			storageManager.Close()
			return nil, err
		}
	}

	a.KnowledgeService, err = knowledge.NewService(
		a.ExtractionService,
		a.ChunkingService,
		a.EmbeddingService,
		storageManager.VectorStorage(),
		config,
		logger,
	)
	if err != nil {
		storageManager.Close()
		return nil, err
	}

	a.TrackingService = tracking.NewService(storageManager.TrackingStorage(), logger)
	a.AnalyticsService = analytics.NewService(storageManager.TrackingStorage(), logger)

	a.KnowledgeHandler = handlers.NewKnowledgeHandler(a.KnowledgeService, a.ReportService, logger)
	a.TrackingHandler = handlers.NewTrackingHandler(a.TrackingService, a.ReportService, logger)
	a.AnalyticsHandler = handlers.NewAnalyticsHandler(a.AnalyticsService, logger)
	a.StatusHandler = handlers.NewStatusHandler(a.KnowledgeService, logger)

	if err := a.startScheduler(); err != nil {
		storageManager.Close()
		return nil, err
	}

	return a, nil
}

// startScheduler registers background maintenance jobs: a periodic Badger
// value log GC pass, plus the corpus refresh when enabled.
func (a *App) startScheduler() error {
	a.scheduler = cron.New()

	if _, err := a.scheduler.AddFunc("@every 1h", func() {
		a.StorageManager.RunGC()
	}); err != nil {
		return fmt.Errorf("failed to schedule storage GC: %w", err)
	}

	if a.Config.Processing.Enabled {
		_, err := a.scheduler.AddFunc(a.Config.Processing.Schedule, func() {
			a.Logger.Info().Msg("Scheduled corpus refresh starting")
			if err := a.KnowledgeService.Build(context.Background(), true); err != nil {
				a.Logger.Error().Err(err).Msg("Scheduled corpus refresh failed")
			}
		})
		if err != nil {
			return fmt.Errorf("invalid refresh schedule '%s': %w", a.Config.Processing.Schedule, err)
		}
		a.Logger.Info().
			Str("schedule", a.Config.Processing.Schedule).
			Msg("Corpus refresh scheduler started")
	}

	a.scheduler.Start()
	return nil
}

// Close releases application resources
func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.StorageManager != nil {
		return a.StorageManager.Close()
	}
	return nil
}
