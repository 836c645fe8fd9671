package service

import (
	"context"
	"errors"
	"testing"

	"paperdesk/internal/storage"

	"github.com/stretchr/testify/require"
)

func stubPDFInfo(t *testing.T, pages int, err error) {
	t.Helper()
	prev := pdfInfo
	pdfInfo = func(_ []byte) (int, error) { return pages, err }
	t.Cleanup(func() { pdfInfo = prev })
}

type ingestEnv struct {
	papers       *memPapers
	contents     *memContents
	figures      *memFigures
	tables       *memTables
	equations    *memEquations
	translations *memTranslations
	summaries    *memSummaries
	blobs        *memBlob
	extractor    *fakeExtractor
	ingestor     *Ingestor
}

func newIngestEnv() *ingestEnv {
	env := &ingestEnv{
		papers:       newMemPapers(),
		contents:     newMemContents(),
		figures:      &memFigures{},
		tables:       &memTables{},
		equations:    &memEquations{},
		translations: newMemTranslations(),
		summaries:    newMemSummaries(),
		blobs:        newMemBlob(),
		extractor:    newFakeExtractor(),
	}
	translations := NewTranslations(env.contents, env.translations, env.extractor, nil)
	summaries := NewSummaries(env.contents, env.summaries, env.extractor, nil)
	env.ingestor = NewIngestor(
		env.papers, env.contents, env.figures, env.tables, env.equations,
		env.extractor, env.blobs, translations, summaries, nil,
	)
	return env
}

func TestIngestPersistsPaperAndExtractedContent(t *testing.T) {
	stubPDFInfo(t, 12, nil)
	env := newIngestEnv()

	paper, err := env.ingestor.Ingest(context.Background(), []byte("%PDF-fake"), IngestOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, paper.PaperID)
	require.Equal(t, "Attention Is All You Need", paper.Title)
	require.Equal(t, 12, paper.PageCount)
	require.Equal(t, "mem://pdfs/"+paper.PaperID+".pdf", paper.PDFURL)
	require.Equal(t, paper.CreatedAt, paper.UpdatedAt)

	stored, err := env.papers.GetByID(context.Background(), paper.PaperID)
	require.NoError(t, err)
	require.Equal(t, paper, stored)

	content, err := env.contents.GetByPaperID(context.Background(), paper.PaperID)
	require.NoError(t, err)
	require.Equal(t, paper.PaperID, content.PaperID)
	require.NotEmpty(t, content.ContentID)
	require.Len(t, content.Sections, 2)
	require.Len(t, content.Sections[0].Paragraphs, 3)
	require.Len(t, content.Sections[1].Paragraphs, 1)

	figures, err := env.figures.ListByPaper(context.Background(), paper.PaperID)
	require.NoError(t, err)
	require.Len(t, figures, 1)
	require.Equal(t, paper.PaperID, figures[0].PaperID)

	tables, err := env.tables.ListByPaper(context.Background(), paper.PaperID)
	require.NoError(t, err)
	require.Empty(t, tables)

	equations, err := env.equations.ListByPaper(context.Background(), paper.PaperID)
	require.NoError(t, err)
	require.Len(t, equations, 2)
}

func TestIngestRejectsUnreadablePDF(t *testing.T) {
	stubPDFInfo(t, 0, errors.New("bad header"))
	env := newIngestEnv()

	_, err := env.ingestor.Ingest(context.Background(), []byte("not a pdf"), IngestOptions{})
	require.Error(t, err)
	require.True(t, IsValidation(err))
	require.Zero(t, env.extractor.callCount("extract_text"))
	require.Zero(t, env.extractor.callCount("extract_metadata"))
	papers, _, err := env.papers.List(context.Background(), storage.PaperFilter{PageSize: 10})
	require.NoError(t, err)
	require.Empty(t, papers)
}

func TestIngestWithTargetLanguageStoresTranslation(t *testing.T) {
	stubPDFInfo(t, 3, nil)
	env := newIngestEnv()

	paper, err := env.ingestor.Ingest(context.Background(), []byte("%PDF-fake"), IngestOptions{TargetLanguage: "de"})
	require.NoError(t, err)

	translation, err := env.translations.GetByPaperAndLanguage(context.Background(), paper.PaperID, "de")
	require.NoError(t, err)
	require.Equal(t, "de", translation.Language)
	require.Len(t, translation.Sections, 2)
	require.Equal(t, 1, env.extractor.callCount("translate"))
}

func TestIngestWithSummaryStoresSummary(t *testing.T) {
	stubPDFInfo(t, 3, nil)
	env := newIngestEnv()

	paper, err := env.ingestor.Ingest(context.Background(), []byte("%PDF-fake"), IngestOptions{
		IncludeSummary:          true,
		IncludeChapterSummaries: true,
	})
	require.NoError(t, err)

	summary, err := env.summaries.GetByPaperAndLanguage(context.Background(), paper.PaperID, "en")
	require.NoError(t, err)
	require.Equal(t, "A short summary.", summary.WholeSummary)
	require.Len(t, summary.ChapterSummaries, 2)
}

func TestIngestTranslationFailureDoesNotFailIngest(t *testing.T) {
	stubPDFInfo(t, 3, nil)
	env := newIngestEnv()
	env.extractor.translateErr = errors.New("provider unavailable")

	paper, err := env.ingestor.Ingest(context.Background(), []byte("%PDF-fake"), IngestOptions{TargetLanguage: "fr"})
	require.NoError(t, err)
	require.NotEmpty(t, paper.PaperID)

	_, err = env.translations.GetByPaperAndLanguage(context.Background(), paper.PaperID, "fr")
	require.Error(t, err)
}
