package main

import (
	"context"
	"log"
	"time"

	"paperdesk/internal/activities"
	"paperdesk/internal/blob"
	"paperdesk/internal/config"
	"paperdesk/internal/extraction"
	"paperdesk/internal/providers"
	"paperdesk/internal/service"
	"paperdesk/internal/storage"
	"paperdesk/internal/workflows"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
)

func buildBlobStore(ctx context.Context, cfg config.Config) (blob.Store, error) {
	if cfg.BlobBackend == "gcs" {
		return blob.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSPrefix)
	}
	return blob.NewLocalStore(cfg.BlobRoot)
}

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal("dial temporal", zap.Error(err))
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()
	if err := storage.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}

	pm, err := providers.NewManager(cfg.LLMProviders, cfg.LLMTimeout, cfg.ExtractTimeout)
	if err != nil {
		logger.Fatal("build providers", zap.Error(err))
	}
	extractor := extraction.New(pm.FirstLLMProvider())

	blobs, err := buildBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal("build blob store", zap.Error(err))
	}

	papers := storage.NewPaperRepo(db)
	contents := storage.NewContentRepo(db)
	figures := storage.NewFigureRepo(db)
	tables := storage.NewTableRepo(db)
	equations := storage.NewEquationRepo(db)
	translations := service.NewTranslations(contents, storage.NewTranslationRepo(db), extractor, logger)
	summaries := service.NewSummaries(contents, storage.NewSummaryRepo(db), extractor, logger)

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: cfg.IngestMaxPending,
	})
	workflows.Register(w)
	activities.Register(w, activities.New(papers, contents, figures, tables, equations, extractor, blobs, translations, summaries))

	logger.Info("paperdesk worker starting",
		zap.String("temporal", cfg.TemporalAddress),
		zap.String("task_queue", cfg.TemporalTaskQueue),
		zap.String("llm_providers", cfg.LLMProviders),
	)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("run worker", zap.Error(err))
	}
}
