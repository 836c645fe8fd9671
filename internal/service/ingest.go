package service

import (
	"context"
	"fmt"
	"time"

	"paperdesk/internal/blob"
	"paperdesk/internal/extraction"
	"paperdesk/internal/models"
	"paperdesk/internal/pdfutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type IngestOptions struct {
	TargetLanguage          string `json:"target_language,omitempty"`
	IncludeSummary          bool   `json:"include_summary"`
	IncludeChapterSummaries bool   `json:"include_chapter_summaries"`
}

// Ingestor is the only component that mints paper identifiers. One call to
// Ingest coordinates extraction, identity assignment, the blob upload, and
// the fan-out persistence writes for a single PDF.
type Ingestor struct {
	papers       PaperStore
	contents     ContentStore
	figures      FigureStore
	tables       TableStore
	equations    EquationStore
	extractor    ContentExtractor
	blobs        blob.Store
	translations *Translations
	summaries    *Summaries
	log          *zap.Logger
}

func NewIngestor(
	papers PaperStore,
	contents ContentStore,
	figures FigureStore,
	tables TableStore,
	equations EquationStore,
	extractor ContentExtractor,
	blobs blob.Store,
	translations *Translations,
	summaries *Summaries,
	log *zap.Logger,
) *Ingestor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{
		papers:       papers,
		contents:     contents,
		figures:      figures,
		tables:       tables,
		equations:    equations,
		extractor:    extractor,
		blobs:        blobs,
		translations: translations,
		summaries:    summaries,
		log:          log,
	}
}

// Stubbed in tests that exercise ingestion without a real PDF.
var pdfInfo = pdfutil.Info

func (ing *Ingestor) Ingest(ctx context.Context, pdfData []byte, opts IngestOptions) (models.Paper, error) {
	pages, err := pdfInfo(pdfData)
	if err != nil {
		return models.Paper{}, validationf("not a readable pdf: %v", err)
	}

	// The two extraction calls are independent and run concurrently. The
	// paper identifier is deliberately minted only after both succeed, so
	// failed extractions never consume identifiers.
	var (
		content   models.TextContent
		paper     models.Paper
		figures   []models.Figure
		tables    []models.Table
		equations []models.Equation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		content, err = ing.extractor.ExtractText(gctx, pdfData)
		return err
	})
	g.Go(func() error {
		var err error
		paper, figures, tables, equations, err = ing.extractor.ExtractMetadataAndMedia(gctx, pdfData, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Paper{}, fmt.Errorf("ingest extraction: %w", err)
	}

	paperID := uuid.NewString()
	now := time.Now().UTC()
	paper.PaperID = paperID
	paper.PageCount = pages
	paper.CreatedAt = now
	paper.UpdatedAt = now

	pdfURL, err := ing.blobs.Upload(ctx, "pdfs/"+paperID+".pdf", "application/pdf", pdfData)
	if err != nil {
		return models.Paper{}, fmt.Errorf("upload pdf: %w", err)
	}
	paper.PDFURL = pdfURL

	content.ContentID = uuid.NewString()
	content.PaperID = paperID
	for i := range figures {
		figures[i].PaperID = paperID
	}
	for i := range tables {
		tables[i].PaperID = paperID
	}
	for i := range equations {
		equations[i].PaperID = paperID
	}

	// The paper record goes first so dependents are never queryable before
	// their owner; the remaining writes are independent resources. There is
	// no rollback: a failure here leaves a partially-ingested paper and the
	// uploaded blob behind.
	if err := ing.papers.Create(ctx, paper); err != nil {
		return models.Paper{}, fmt.Errorf("persist paper: %w", err)
	}
	pg, pctx := errgroup.WithContext(ctx)
	pg.Go(func() error { return ing.contents.Create(pctx, content) })
	if len(figures) > 0 {
		pg.Go(func() error { return ing.figures.CreateBatch(pctx, figures) })
	}
	if len(tables) > 0 {
		pg.Go(func() error { return ing.tables.CreateBatch(pctx, tables) })
	}
	if len(equations) > 0 {
		pg.Go(func() error { return ing.equations.CreateBatch(pctx, equations) })
	}
	if err := pg.Wait(); err != nil {
		return models.Paper{}, fmt.Errorf("persist extracted content: %w", err)
	}

	ing.log.Info("paper ingested",
		zap.String("paper_id", paperID),
		zap.Int("sections", len(content.Sections)),
		zap.Int("figures", len(figures)),
		zap.Int("tables", len(tables)),
		zap.Int("equations", len(equations)),
		zap.Int("pages", pages),
	)

	ing.runPostIngest(ctx, paperID, opts)
	return paper, nil
}

// runPostIngest serves the optional translate/summarize flags. The paper is
// fully ingested at this point, so failures here are logged, not propagated.
func (ing *Ingestor) runPostIngest(ctx context.Context, paperID string, opts IngestOptions) {
	if opts.TargetLanguage != "" && ing.translations != nil {
		if _, err := ing.translations.GetOrCreate(ctx, paperID, opts.TargetLanguage); err != nil {
			ing.log.Warn("post-ingest translation failed", zap.String("paper_id", paperID), zap.Error(err))
		}
	}
	if opts.IncludeSummary && ing.summaries != nil {
		_, err := ing.summaries.GetOrCreate(ctx, paperID, extraction.SummaryOptions{
			Language:                summaryLanguageOrDefault(opts.TargetLanguage),
			IncludeChapterSummaries: opts.IncludeChapterSummaries,
		})
		if err != nil {
			ing.log.Warn("post-ingest summary failed", zap.String("paper_id", paperID), zap.Error(err))
		}
	}
}

func summaryLanguageOrDefault(lang string) string {
	if lang == "" {
		return "en"
	}
	return lang
}
