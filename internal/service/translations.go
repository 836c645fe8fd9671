package service

import (
	"context"
	"strings"

	"paperdesk/internal/models"

	"go.uber.org/zap"
)

// Translations serves per-language translations of a paper's content tree.
// GetOrCreate is idempotent per (paper, language): the generative adapter is
// only consulted when no stored translation exists, and concurrent callers
// converge on a single stored row.
type Translations struct {
	contents     ContentStore
	translations TranslationStore
	extractor    ContentExtractor
	log          *zap.Logger
}

func NewTranslations(contents ContentStore, translations TranslationStore, extractor ContentExtractor, log *zap.Logger) *Translations {
	if log == nil {
		log = zap.NewNop()
	}
	return &Translations{contents: contents, translations: translations, extractor: extractor, log: log}
}

func normalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

func (s *Translations) Get(ctx context.Context, paperID, language string) (models.Translation, error) {
	language = normalizeLanguage(language)
	if language == "" {
		return models.Translation{}, validationf("language is required")
	}
	t, err := s.translations.GetByPaperAndLanguage(ctx, paperID, language)
	if err != nil {
		return models.Translation{}, mapNotFound(err)
	}
	return t, nil
}

func (s *Translations) Languages(ctx context.Context, paperID string) ([]string, error) {
	langs, err := s.translations.ListLanguages(ctx, paperID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return langs, nil
}

func (s *Translations) GetOrCreate(ctx context.Context, paperID, language string) (models.Translation, error) {
	language = normalizeLanguage(language)
	if language == "" {
		return models.Translation{}, validationf("language is required")
	}
	existing, err := s.translations.GetByPaperAndLanguage(ctx, paperID, language)
	if err == nil {
		return existing, nil
	}
	if mapped := mapNotFound(err); mapped != ErrNotFound {
		return models.Translation{}, err
	}

	content, err := s.contents.GetByPaperID(ctx, paperID)
	if err != nil {
		return models.Translation{}, mapNotFound(err)
	}
	translated, err := s.extractor.Translate(ctx, content, paperID, language)
	if err != nil {
		return models.Translation{}, err
	}
	translated.PaperID = paperID
	translated.Language = language

	// First writer wins; a concurrent insert between the read above and
	// this write hands back the stored row, and our generated copy is
	// discarded.
	stored, err := s.translations.CreateIfAbsent(ctx, translated)
	if err != nil {
		return models.Translation{}, err
	}
	if stored.TranslationID != translated.TranslationID {
		s.log.Debug("translation raced, kept stored row",
			zap.String("paper_id", paperID),
			zap.String("language", language),
		)
	}
	return stored, nil
}

func (s *Translations) Delete(ctx context.Context, paperID string) error {
	return s.translations.DeleteByPaper(ctx, paperID)
}
