package main

import (
	"context"
	"log"
	"time"

	"paperdesk/internal/api"
	"paperdesk/internal/blob"
	"paperdesk/internal/config"
	"paperdesk/internal/extraction"
	"paperdesk/internal/providers"
	"paperdesk/internal/service"
	"paperdesk/internal/storage"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
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

	tc, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal("dial temporal", zap.Error(err))
	}
	defer tc.Close()

	papers := storage.NewPaperRepo(db)
	contents := storage.NewContentRepo(db)
	figures := storage.NewFigureRepo(db)
	tables := storage.NewTableRepo(db)
	equations := storage.NewEquationRepo(db)
	translationRepo := storage.NewTranslationRepo(db)
	summaryRepo := storage.NewSummaryRepo(db)

	translations := service.NewTranslations(contents, translationRepo, extractor, logger)
	summaries := service.NewSummaries(contents, summaryRepo, extractor, logger)
	ingestor := service.NewIngestor(papers, contents, figures, tables, equations, extractor, blobs, translations, summaries, logger)
	paperSvc := service.NewPapers(papers, contents, figures, tables, equations, translationRepo, summaryRepo, blobs, logger)
	chats := service.NewChats(contents, extractor, logger)
	highlights := service.NewHighlights(papers, storage.NewHighlightRepo(db))
	presets := service.NewPresets(storage.NewPresetRepo(db))

	srv := api.NewServer(ingestor, paperSvc, translations, summaries, chats, highlights, presets, tc, blobs, &cfg, logger)
	logger.Info("paperdesk api starting",
		zap.String("addr", cfg.APIAddr),
		zap.String("llm_providers", cfg.LLMProviders),
		zap.String("blob_backend", cfg.BlobBackend),
	)
	if err := srv.Start(); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}
