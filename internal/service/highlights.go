package service

import (
	"context"
	"strings"
	"time"

	"paperdesk/internal/models"

	"github.com/google/uuid"
)

// CreateHighlightRequest describes a new annotation span. Offsets are
// half-open rune positions within the target paragraph.
type CreateHighlightRequest struct {
	ParagraphID string `json:"paragraph_id"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Color       string `json:"color"`
	Note        string `json:"note,omitempty"`
}

// UpdateHighlightRequest edits mutable fields; nil fields are untouched.
type UpdateHighlightRequest struct {
	Color *string `json:"color,omitempty"`
	Note  *string `json:"note,omitempty"`
}

// Highlights manages per-user annotation spans. Every operation is scoped to
// the calling user; one user can never read or mutate another's highlights.
type Highlights struct {
	papers     PaperStore
	highlights HighlightStore
}

func NewHighlights(papers PaperStore, highlights HighlightStore) *Highlights {
	return &Highlights{papers: papers, highlights: highlights}
}

func (s *Highlights) Create(ctx context.Context, paperID, userID string, req CreateHighlightRequest) (models.Highlight, error) {
	if strings.TrimSpace(req.ParagraphID) == "" {
		return models.Highlight{}, validationf("paragraph_id is required")
	}
	if req.StartOffset < 0 || req.StartOffset >= req.EndOffset {
		return models.Highlight{}, validationf("offset range [%d, %d) is invalid", req.StartOffset, req.EndOffset)
	}
	if _, err := s.papers.GetByID(ctx, paperID); err != nil {
		return models.Highlight{}, mapNotFound(err)
	}
	h := models.Highlight{
		HighlightID: uuid.NewString(),
		PaperID:     paperID,
		UserID:      userID,
		ParagraphID: req.ParagraphID,
		StartOffset: req.StartOffset,
		EndOffset:   req.EndOffset,
		Color:       req.Color,
		Note:        req.Note,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.highlights.Create(ctx, h); err != nil {
		return models.Highlight{}, err
	}
	return h, nil
}

func (s *Highlights) ListByPaper(ctx context.Context, paperID, userID string) ([]models.Highlight, error) {
	hs, err := s.highlights.ListByPaper(ctx, paperID, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return hs, nil
}

func (s *Highlights) Update(ctx context.Context, highlightID, userID string, req UpdateHighlightRequest) (models.Highlight, error) {
	h, err := s.highlights.GetByID(ctx, highlightID, userID)
	if err != nil {
		return models.Highlight{}, mapNotFound(err)
	}
	if req.Color != nil {
		h.Color = *req.Color
	}
	if req.Note != nil {
		h.Note = *req.Note
	}
	if err := s.highlights.Update(ctx, h); err != nil {
		return models.Highlight{}, mapNotFound(err)
	}
	return h, nil
}

func (s *Highlights) Delete(ctx context.Context, highlightID, userID string) error {
	h, err := s.highlights.GetByID(ctx, highlightID, userID)
	if err != nil {
		return mapNotFound(err)
	}
	return mapNotFound(s.highlights.Delete(ctx, highlightID, userID, h.PaperID))
}
