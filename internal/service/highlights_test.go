package service

import (
	"context"
	"testing"
	"time"

	"paperdesk/internal/models"

	"github.com/stretchr/testify/require"
)

func seedPaper(t *testing.T, papers *memPapers, paperID string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, papers.Create(context.Background(), models.Paper{
		PaperID:   paperID,
		Title:     "Seeded",
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestCreateHighlightValidatesOffsets(t *testing.T) {
	papers := newMemPapers()
	svc := NewHighlights(papers, newMemHighlights())
	seedPaper(t, papers, "paper-1")

	cases := []struct {
		name  string
		start int
		end   int
	}{
		{"negative start", -1, 5},
		{"empty range", 4, 4},
		{"inverted range", 7, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "paper-1", "user-a", CreateHighlightRequest{
				ParagraphID: "par-1",
				StartOffset: tc.start,
				EndOffset:   tc.end,
				Color:       "#ffeb3b",
			})
			require.True(t, IsValidation(err))
		})
	}
}

func TestCreateHighlightRequiresParagraph(t *testing.T) {
	papers := newMemPapers()
	svc := NewHighlights(papers, newMemHighlights())
	seedPaper(t, papers, "paper-1")

	_, err := svc.Create(context.Background(), "paper-1", "user-a", CreateHighlightRequest{
		StartOffset: 0,
		EndOffset:   5,
	})
	require.True(t, IsValidation(err))
}

func TestCreateHighlightOnMissingPaper(t *testing.T) {
	svc := NewHighlights(newMemPapers(), newMemHighlights())
	_, err := svc.Create(context.Background(), "missing", "user-a", CreateHighlightRequest{
		ParagraphID: "par-1",
		StartOffset: 0,
		EndOffset:   5,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHighlightsAreUserScoped(t *testing.T) {
	papers := newMemPapers()
	store := newMemHighlights()
	svc := NewHighlights(papers, store)
	seedPaper(t, papers, "paper-1")

	mine, err := svc.Create(context.Background(), "paper-1", "user-a", CreateHighlightRequest{
		ParagraphID: "par-1",
		StartOffset: 0,
		EndOffset:   10,
		Color:       "#ffeb3b",
		Note:        "important",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "paper-1", "user-b", CreateHighlightRequest{
		ParagraphID: "par-2",
		StartOffset: 2,
		EndOffset:   6,
		Color:       "#4caf50",
	})
	require.NoError(t, err)

	listA, err := svc.ListByPaper(context.Background(), "paper-1", "user-a")
	require.NoError(t, err)
	require.Len(t, listA, 1)
	require.Equal(t, mine.HighlightID, listA[0].HighlightID)

	// user-b can neither read nor mutate user-a's highlight
	_, err = svc.Update(context.Background(), mine.HighlightID, "user-b", UpdateHighlightRequest{})
	require.ErrorIs(t, err, ErrNotFound)
	err = svc.Delete(context.Background(), mine.HighlightID, "user-b")
	require.ErrorIs(t, err, ErrNotFound)

	listA, err = svc.ListByPaper(context.Background(), "paper-1", "user-a")
	require.NoError(t, err)
	require.Len(t, listA, 1)
}

func TestUpdateHighlightPartialFields(t *testing.T) {
	papers := newMemPapers()
	svc := NewHighlights(papers, newMemHighlights())
	seedPaper(t, papers, "paper-1")

	created, err := svc.Create(context.Background(), "paper-1", "user-a", CreateHighlightRequest{
		ParagraphID: "par-1",
		StartOffset: 0,
		EndOffset:   10,
		Color:       "#ffeb3b",
		Note:        "keep me",
	})
	require.NoError(t, err)

	color := "#f44336"
	updated, err := svc.Update(context.Background(), created.HighlightID, "user-a", UpdateHighlightRequest{Color: &color})
	require.NoError(t, err)
	require.Equal(t, "#f44336", updated.Color)
	require.Equal(t, "keep me", updated.Note)
	require.Equal(t, created.StartOffset, updated.StartOffset)
	require.Equal(t, created.EndOffset, updated.EndOffset)
}

func TestDeleteHighlight(t *testing.T) {
	papers := newMemPapers()
	svc := NewHighlights(papers, newMemHighlights())
	seedPaper(t, papers, "paper-1")

	created, err := svc.Create(context.Background(), "paper-1", "user-a", CreateHighlightRequest{
		ParagraphID: "par-1",
		StartOffset: 1,
		EndOffset:   4,
		Color:       "#ffeb3b",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.HighlightID, "user-a"))
	list, err := svc.ListByPaper(context.Background(), "paper-1", "user-a")
	require.NoError(t, err)
	require.Empty(t, list)

	err = svc.Delete(context.Background(), created.HighlightID, "user-a")
	require.ErrorIs(t, err, ErrNotFound)
}
