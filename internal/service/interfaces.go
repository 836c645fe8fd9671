package service

import (
	"context"

	"paperdesk/internal/extraction"
	"paperdesk/internal/models"
	"paperdesk/internal/storage"
)

// Store contracts consumed by the use cases. The storage package implements
// them against Postgres; tests substitute in-memory fakes. Absence is always
// reported as storage.ErrNotFound.

type PaperStore interface {
	Create(ctx context.Context, p models.Paper) error
	GetByID(ctx context.Context, paperID string) (models.Paper, error)
	Update(ctx context.Context, p models.Paper) error
	Delete(ctx context.Context, paperID string) error
	List(ctx context.Context, filter storage.PaperFilter) ([]models.Paper, string, error)
}

type ContentStore interface {
	Create(ctx context.Context, c models.TextContent) error
	GetByPaperID(ctx context.Context, paperID string) (models.TextContent, error)
	DeleteByPaperID(ctx context.Context, paperID string) error
}

type FigureStore interface {
	CreateBatch(ctx context.Context, figures []models.Figure) error
	ListByPaper(ctx context.Context, paperID string) ([]models.Figure, error)
	DeleteByPaper(ctx context.Context, paperID string) error
}

type TableStore interface {
	CreateBatch(ctx context.Context, tables []models.Table) error
	ListByPaper(ctx context.Context, paperID string) ([]models.Table, error)
	DeleteByPaper(ctx context.Context, paperID string) error
}

type EquationStore interface {
	CreateBatch(ctx context.Context, equations []models.Equation) error
	ListByPaper(ctx context.Context, paperID string) ([]models.Equation, error)
	DeleteByPaper(ctx context.Context, paperID string) error
}

type TranslationStore interface {
	GetByPaperAndLanguage(ctx context.Context, paperID, language string) (models.Translation, error)
	CreateIfAbsent(ctx context.Context, t models.Translation) (models.Translation, error)
	ListLanguages(ctx context.Context, paperID string) ([]string, error)
	DeleteByPaper(ctx context.Context, paperID string) error
}

type SummaryStore interface {
	GetByPaperAndLanguage(ctx context.Context, paperID, language string) (models.Summary, error)
	CreateIfAbsent(ctx context.Context, s models.Summary) (models.Summary, error)
	DeleteByPaper(ctx context.Context, paperID string) error
}

type HighlightStore interface {
	Create(ctx context.Context, h models.Highlight) error
	GetByID(ctx context.Context, highlightID, userID string) (models.Highlight, error)
	ListByPaper(ctx context.Context, paperID, userID string) ([]models.Highlight, error)
	Update(ctx context.Context, h models.Highlight) error
	Delete(ctx context.Context, highlightID, userID, paperID string) error
}

type PresetStore interface {
	Create(ctx context.Context, p models.HighlightColorPreset) error
	GetByID(ctx context.Context, presetID, userID string) (models.HighlightColorPreset, error)
	ListByUser(ctx context.Context, userID string) ([]models.HighlightColorPreset, error)
	Update(ctx context.Context, p models.HighlightColorPreset) error
	Delete(ctx context.Context, presetID, userID string) error
	SetDefault(ctx context.Context, presetID, userID string) (models.HighlightColorPreset, error)
}

// ContentExtractor is the generative-capability boundary with tolerant
// parsing behind it (implemented by extraction.Extractor).
type ContentExtractor interface {
	ExtractText(ctx context.Context, pdfData []byte) (models.TextContent, error)
	ExtractMetadataAndMedia(ctx context.Context, pdfData []byte, paperID string) (models.Paper, []models.Figure, []models.Table, []models.Equation, error)
	Translate(ctx context.Context, content models.TextContent, paperID, targetLanguage string) (models.Translation, error)
	Summarize(ctx context.Context, content models.TextContent, paperID string, opts extraction.SummaryOptions) (models.Summary, error)
	Chat(ctx context.Context, paperContext, message string) (string, error)
}
