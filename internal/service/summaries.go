package service

import (
	"context"

	"paperdesk/internal/extraction"
	"paperdesk/internal/models"

	"go.uber.org/zap"
)

// Summaries mirrors Translations: one stored summary per (paper, language),
// generated on first request and reused afterwards.
type Summaries struct {
	contents  ContentStore
	summaries SummaryStore
	extractor ContentExtractor
	log       *zap.Logger
}

func NewSummaries(contents ContentStore, summaries SummaryStore, extractor ContentExtractor, log *zap.Logger) *Summaries {
	if log == nil {
		log = zap.NewNop()
	}
	return &Summaries{contents: contents, summaries: summaries, extractor: extractor, log: log}
}

func (s *Summaries) Get(ctx context.Context, paperID, language string) (models.Summary, error) {
	language = normalizeLanguage(language)
	if language == "" {
		language = "en"
	}
	sum, err := s.summaries.GetByPaperAndLanguage(ctx, paperID, language)
	if err != nil {
		return models.Summary{}, mapNotFound(err)
	}
	return sum, nil
}

func (s *Summaries) GetOrCreate(ctx context.Context, paperID string, opts extraction.SummaryOptions) (models.Summary, error) {
	opts.Language = normalizeLanguage(opts.Language)
	if opts.Language == "" {
		opts.Language = "en"
	}
	existing, err := s.summaries.GetByPaperAndLanguage(ctx, paperID, opts.Language)
	if err == nil {
		return existing, nil
	}
	if mapped := mapNotFound(err); mapped != ErrNotFound {
		return models.Summary{}, err
	}

	content, err := s.contents.GetByPaperID(ctx, paperID)
	if err != nil {
		return models.Summary{}, mapNotFound(err)
	}
	generated, err := s.extractor.Summarize(ctx, content, paperID, opts)
	if err != nil {
		return models.Summary{}, err
	}
	generated.PaperID = paperID
	generated.Language = opts.Language

	stored, err := s.summaries.CreateIfAbsent(ctx, generated)
	if err != nil {
		return models.Summary{}, err
	}
	if stored.SummaryID != generated.SummaryID {
		s.log.Debug("summary raced, kept stored row",
			zap.String("paper_id", paperID),
			zap.String("language", opts.Language),
		)
	}
	return stored, nil
}

func (s *Summaries) Delete(ctx context.Context, paperID string) error {
	return s.summaries.DeleteByPaper(ctx, paperID)
}
