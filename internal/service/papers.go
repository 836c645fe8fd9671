package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"paperdesk/internal/blob"
	"paperdesk/internal/models"
	"paperdesk/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PaperDetail is the full read-side projection of one paper.
type PaperDetail struct {
	Paper     models.Paper       `json:"paper"`
	Content   models.TextContent `json:"content"`
	Figures   []models.Figure    `json:"figures"`
	Tables    []models.Table     `json:"tables"`
	Equations []models.Equation  `json:"equations"`
}

// UpdateMetaRequest carries a partial metadata edit; nil fields are left
// untouched.
type UpdateMetaRequest struct {
	Title       *string   `json:"title,omitempty"`
	Authors     *[]string `json:"authors,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	OriginalURL *string   `json:"original_url,omitempty"`
}

type Papers struct {
	papers       PaperStore
	contents     ContentStore
	figures      FigureStore
	tables       TableStore
	equations    EquationStore
	translations TranslationStore
	summaries    SummaryStore
	blobs        blob.Store
	log          *zap.Logger
}

func NewPapers(
	papers PaperStore,
	contents ContentStore,
	figures FigureStore,
	tables TableStore,
	equations EquationStore,
	translations TranslationStore,
	summaries SummaryStore,
	blobs blob.Store,
	log *zap.Logger,
) *Papers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Papers{
		papers:       papers,
		contents:     contents,
		figures:      figures,
		tables:       tables,
		equations:    equations,
		translations: translations,
		summaries:    summaries,
		blobs:        blobs,
		log:          log,
	}
}

func (s *Papers) List(ctx context.Context, filter storage.PaperFilter) ([]models.Paper, string, error) {
	return s.papers.List(ctx, filter)
}

// Detail composes the paper with its content tree and media collections. The
// four dependent reads run concurrently; sections and paragraphs come back
// sorted ascending by order index regardless of storage order. A paper whose
// content row is missing still resolves, with an empty tree.
func (s *Papers) Detail(ctx context.Context, paperID string) (PaperDetail, error) {
	paper, err := s.papers.GetByID(ctx, paperID)
	if err != nil {
		return PaperDetail{}, mapNotFound(err)
	}

	detail := PaperDetail{Paper: paper}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		content, err := s.contents.GetByPaperID(gctx, paperID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		detail.Content = content
		return nil
	})
	g.Go(func() error {
		var err error
		detail.Figures, err = s.figures.ListByPaper(gctx, paperID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Tables, err = s.tables.ListByPaper(gctx, paperID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Equations, err = s.equations.ListByPaper(gctx, paperID)
		return err
	})
	if err := g.Wait(); err != nil {
		return PaperDetail{}, fmt.Errorf("load paper detail: %w", err)
	}

	sortContent(&detail.Content)
	sort.SliceStable(detail.Figures, func(i, j int) bool { return detail.Figures[i].OrderIndex < detail.Figures[j].OrderIndex })
	sort.SliceStable(detail.Tables, func(i, j int) bool { return detail.Tables[i].OrderIndex < detail.Tables[j].OrderIndex })
	sort.SliceStable(detail.Equations, func(i, j int) bool { return detail.Equations[i].OrderIndex < detail.Equations[j].OrderIndex })
	return detail, nil
}

func sortContent(c *models.TextContent) {
	sort.SliceStable(c.Sections, func(i, j int) bool { return c.Sections[i].OrderIndex < c.Sections[j].OrderIndex })
	for i := range c.Sections {
		paragraphs := c.Sections[i].Paragraphs
		sort.SliceStable(paragraphs, func(a, b int) bool { return paragraphs[a].OrderIndex < paragraphs[b].OrderIndex })
	}
}

// UpdateMeta applies a partial metadata edit. The identifier and creation
// timestamp are immutable; updated_at always moves forward.
func (s *Papers) UpdateMeta(ctx context.Context, paperID string, req UpdateMetaRequest) (models.Paper, error) {
	paper, err := s.papers.GetByID(ctx, paperID)
	if err != nil {
		return models.Paper{}, mapNotFound(err)
	}
	if req.Title != nil {
		paper.Title = *req.Title
	}
	if req.Authors != nil {
		paper.Authors = *req.Authors
	}
	if req.Description != nil {
		paper.Description = *req.Description
	}
	if req.Tags != nil {
		paper.Tags = *req.Tags
	}
	if req.OriginalURL != nil {
		paper.OriginalURL = *req.OriginalURL
	}
	paper.UpdatedAt = time.Now().UTC()
	if paper.UpdatedAt.Before(paper.CreatedAt) {
		paper.UpdatedAt = paper.CreatedAt
	}
	if err := s.papers.Update(ctx, paper); err != nil {
		return models.Paper{}, mapNotFound(err)
	}
	return paper, nil
}

// Delete removes the paper and every dependent projection, then the stored
// PDF. Administrative operation; dependent deletes are best-effort once the
// owning record is gone.
func (s *Papers) Delete(ctx context.Context, paperID string) error {
	if _, err := s.papers.GetByID(ctx, paperID); err != nil {
		return mapNotFound(err)
	}
	if err := s.papers.Delete(ctx, paperID); err != nil {
		return err
	}
	for _, del := range []func(context.Context, string) error{
		s.contents.DeleteByPaperID,
		s.figures.DeleteByPaper,
		s.tables.DeleteByPaper,
		s.equations.DeleteByPaper,
		s.translations.DeleteByPaper,
		s.summaries.DeleteByPaper,
	} {
		if err := del(ctx, paperID); err != nil {
			s.log.Warn("dependent delete failed", zap.String("paper_id", paperID), zap.Error(err))
		}
	}
	if err := s.blobs.Delete(ctx, "pdfs/"+paperID+".pdf"); err != nil {
		s.log.Warn("blob delete failed", zap.String("paper_id", paperID), zap.Error(err))
	}
	return nil
}

// FileURL resolves the stored-PDF reference for a paper.
func (s *Papers) FileURL(ctx context.Context, paperID string) (string, error) {
	paper, err := s.papers.GetByID(ctx, paperID)
	if err != nil {
		return "", mapNotFound(err)
	}
	if paper.PDFURL != "" {
		return paper.PDFURL, nil
	}
	url, err := s.blobs.GetURL(ctx, "pdfs/"+paperID+".pdf")
	if err != nil {
		return "", ErrNotFound
	}
	return url, nil
}
