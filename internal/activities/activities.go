// Package activities holds the Temporal activity implementations behind the
// durable ingestion workflow. Each activity reaches the same extraction,
// storage, and blob code the synchronous path uses; workflow inputs carry
// staging keys rather than PDF bytes so payloads stay out of history.
package activities

import (
	"context"
	"fmt"
	"time"

	"paperdesk/internal/blob"
	"paperdesk/internal/extraction"
	"paperdesk/internal/pdfutil"
	"paperdesk/internal/service"

	"github.com/google/uuid"
)

type Activities struct {
	papers       service.PaperStore
	contents     service.ContentStore
	figures      service.FigureStore
	tables       service.TableStore
	equations    service.EquationStore
	extractor    service.ContentExtractor
	blobs        blob.Store
	translations *service.Translations
	summaries    *service.Summaries
}

func New(
	papers service.PaperStore,
	contents service.ContentStore,
	figures service.FigureStore,
	tables service.TableStore,
	equations service.EquationStore,
	extractor service.ContentExtractor,
	blobs blob.Store,
	translations *service.Translations,
	summaries *service.Summaries,
) *Activities {
	return &Activities{
		papers:       papers,
		contents:     contents,
		figures:      figures,
		tables:       tables,
		equations:    equations,
		extractor:    extractor,
		blobs:        blobs,
		translations: translations,
		summaries:    summaries,
	}
}

func (a *Activities) staged(ctx context.Context, key string) ([]byte, error) {
	data, err := a.blobs.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("download staged pdf %s: %w", key, err)
	}
	return data, nil
}

func (a *Activities) ValidatePDFActivity(ctx context.Context, in ValidatePDFInput) (ValidatePDFOutput, error) {
	data, err := a.staged(ctx, in.StagingKey)
	if err != nil {
		return ValidatePDFOutput{}, err
	}
	pages, err := pdfutil.Info(data)
	if err != nil {
		return ValidatePDFOutput{}, fmt.Errorf("not a readable pdf: %w", err)
	}
	return ValidatePDFOutput{Pages: pages}, nil
}

func (a *Activities) ExtractTextActivity(ctx context.Context, in ExtractTextInput) (ExtractTextOutput, error) {
	data, err := a.staged(ctx, in.StagingKey)
	if err != nil {
		return ExtractTextOutput{}, err
	}
	content, err := a.extractor.ExtractText(ctx, data)
	if err != nil {
		return ExtractTextOutput{}, err
	}
	return ExtractTextOutput{Content: content}, nil
}

func (a *Activities) ExtractMetadataActivity(ctx context.Context, in ExtractMetadataInput) (ExtractMetadataOutput, error) {
	data, err := a.staged(ctx, in.StagingKey)
	if err != nil {
		return ExtractMetadataOutput{}, err
	}
	paper, figures, tables, equations, err := a.extractor.ExtractMetadataAndMedia(ctx, data, "")
	if err != nil {
		return ExtractMetadataOutput{}, err
	}
	return ExtractMetadataOutput{Paper: paper, Figures: figures, Tables: tables, Equations: equations}, nil
}

// PersistPaperActivity mints the paper identifier, promotes the staged PDF
// to its permanent key, and writes the paper with its dependents. The
// identifier is assigned here and nowhere earlier, so retries of the
// extraction activities never consume identifiers.
func (a *Activities) PersistPaperActivity(ctx context.Context, in PersistPaperInput) (PersistPaperOutput, error) {
	data, err := a.staged(ctx, in.StagingKey)
	if err != nil {
		return PersistPaperOutput{}, err
	}

	paperID := uuid.NewString()
	now := time.Now().UTC()
	paper := in.Paper
	paper.PaperID = paperID
	paper.PageCount = in.Pages
	paper.CreatedAt = now
	paper.UpdatedAt = now

	pdfURL, err := a.blobs.Upload(ctx, "pdfs/"+paperID+".pdf", "application/pdf", data)
	if err != nil {
		return PersistPaperOutput{}, fmt.Errorf("upload pdf: %w", err)
	}
	paper.PDFURL = pdfURL

	content := in.Content
	content.ContentID = uuid.NewString()
	content.PaperID = paperID
	figures := in.Figures
	for i := range figures {
		figures[i].PaperID = paperID
	}
	tables := in.Tables
	for i := range tables {
		tables[i].PaperID = paperID
	}
	equations := in.Equations
	for i := range equations {
		equations[i].PaperID = paperID
	}

	if err := a.papers.Create(ctx, paper); err != nil {
		return PersistPaperOutput{}, fmt.Errorf("persist paper: %w", err)
	}
	if err := a.contents.Create(ctx, content); err != nil {
		return PersistPaperOutput{}, fmt.Errorf("persist content: %w", err)
	}
	if len(figures) > 0 {
		if err := a.figures.CreateBatch(ctx, figures); err != nil {
			return PersistPaperOutput{}, fmt.Errorf("persist figures: %w", err)
		}
	}
	if len(tables) > 0 {
		if err := a.tables.CreateBatch(ctx, tables); err != nil {
			return PersistPaperOutput{}, fmt.Errorf("persist tables: %w", err)
		}
	}
	if len(equations) > 0 {
		if err := a.equations.CreateBatch(ctx, equations); err != nil {
			return PersistPaperOutput{}, fmt.Errorf("persist equations: %w", err)
		}
	}
	return PersistPaperOutput{PaperID: paperID, PDFURL: pdfURL}, nil
}

func (a *Activities) TranslatePaperActivity(ctx context.Context, in TranslatePaperInput) error {
	_, err := a.translations.GetOrCreate(ctx, in.PaperID, in.Language)
	return err
}

func (a *Activities) SummarizePaperActivity(ctx context.Context, in SummarizePaperInput) error {
	_, err := a.summaries.GetOrCreate(ctx, in.PaperID, extraction.SummaryOptions{
		Language:                in.Language,
		IncludeChapterSummaries: in.IncludeChapterSummaries,
	})
	return err
}

func (a *Activities) DeleteStagingActivity(ctx context.Context, in DeleteStagingInput) error {
	return a.blobs.Delete(ctx, in.StagingKey)
}
