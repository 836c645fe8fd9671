package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"paperdesk/internal/models"

	"github.com/jackc/pgx/v5"
)

type SummaryRepo struct {
	db *DB
}

func NewSummaryRepo(db *DB) *SummaryRepo {
	return &SummaryRepo{db: db}
}

func (r *SummaryRepo) GetByPaperAndLanguage(ctx context.Context, paperID, language string) (models.Summary, error) {
	var (
		s        models.Summary
		chapters []byte
	)
	err := r.db.Pool.QueryRow(ctx, `
SELECT summary_id, paper_id, language, whole_summary, chapter_summaries, created_at
FROM summaries WHERE paper_id=$1 AND language=$2`, paperID, language).
		Scan(&s.SummaryID, &s.PaperID, &s.Language, &s.WholeSummary, &chapters, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Summary{}, ErrNotFound
	}
	if err != nil {
		return models.Summary{}, fmt.Errorf("get summary: %w", err)
	}
	if err := json.Unmarshal(chapters, &s.ChapterSummaries); err != nil {
		return models.Summary{}, fmt.Errorf("unmarshal chapter summaries: %w", err)
	}
	return s, nil
}

// CreateIfAbsent mirrors TranslationRepo.CreateIfAbsent: first writer wins on
// the (paper, language) key, all callers read back the stored record.
func (r *SummaryRepo) CreateIfAbsent(ctx context.Context, s models.Summary) (models.Summary, error) {
	chapters, err := json.Marshal(s.ChapterSummaries)
	if err != nil {
		return models.Summary{}, fmt.Errorf("marshal chapter summaries: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
INSERT INTO summaries (summary_id, paper_id, language, whole_summary, chapter_summaries, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (paper_id, language) DO NOTHING`,
		s.SummaryID, s.PaperID, s.Language, s.WholeSummary, chapters, s.CreatedAt,
	)
	if err != nil {
		return models.Summary{}, fmt.Errorf("create summary: %w", err)
	}
	return r.GetByPaperAndLanguage(ctx, s.PaperID, s.Language)
}

func (r *SummaryRepo) DeleteByPaper(ctx context.Context, paperID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM summaries WHERE paper_id=$1`, paperID)
	if err != nil {
		return fmt.Errorf("delete summaries: %w", err)
	}
	return nil
}
