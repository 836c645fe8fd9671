package storage

import (
	"context"
	"errors"
	"fmt"

	"paperdesk/internal/models"

	"github.com/jackc/pgx/v5"
)

// HighlightRepo scopes every operation by the owning user. A highlight
// identifier alone is never enough context to read or delete a row.
type HighlightRepo struct {
	db *DB
}

func NewHighlightRepo(db *DB) *HighlightRepo {
	return &HighlightRepo{db: db}
}

func (r *HighlightRepo) Create(ctx context.Context, h models.Highlight) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO highlights (highlight_id, paper_id, user_id, paragraph_id, start_offset, end_offset, color, note, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		h.HighlightID, h.PaperID, h.UserID, h.ParagraphID, h.StartOffset, h.EndOffset, h.Color, h.Note, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create highlight: %w", err)
	}
	return nil
}

func (r *HighlightRepo) GetByID(ctx context.Context, highlightID, userID string) (models.Highlight, error) {
	var h models.Highlight
	err := r.db.Pool.QueryRow(ctx, `
SELECT highlight_id, paper_id, user_id, paragraph_id, start_offset, end_offset, color, note, created_at
FROM highlights WHERE highlight_id=$1 AND user_id=$2`, highlightID, userID).
		Scan(&h.HighlightID, &h.PaperID, &h.UserID, &h.ParagraphID, &h.StartOffset, &h.EndOffset, &h.Color, &h.Note, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Highlight{}, ErrNotFound
	}
	if err != nil {
		return models.Highlight{}, fmt.Errorf("get highlight: %w", err)
	}
	return h, nil
}

func (r *HighlightRepo) ListByPaper(ctx context.Context, paperID, userID string) ([]models.Highlight, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT highlight_id, paper_id, user_id, paragraph_id, start_offset, end_offset, color, note, created_at
FROM highlights WHERE paper_id=$1 AND user_id=$2 ORDER BY created_at ASC`, paperID, userID)
	if err != nil {
		return nil, fmt.Errorf("list highlights: %w", err)
	}
	defer rows.Close()
	out := make([]models.Highlight, 0)
	for rows.Next() {
		var h models.Highlight
		if err := rows.Scan(&h.HighlightID, &h.PaperID, &h.UserID, &h.ParagraphID, &h.StartOffset, &h.EndOffset, &h.Color, &h.Note, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan highlight: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *HighlightRepo) Update(ctx context.Context, h models.Highlight) error {
	tag, err := r.db.Pool.Exec(ctx, `
UPDATE highlights SET color=$3, note=$4 WHERE highlight_id=$1 AND user_id=$2`,
		h.HighlightID, h.UserID, h.Color, h.Note,
	)
	if err != nil {
		return fmt.Errorf("update highlight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *HighlightRepo) Delete(ctx context.Context, highlightID, userID, paperID string) error {
	_, err := r.db.Pool.Exec(ctx, `
DELETE FROM highlights WHERE highlight_id=$1 AND user_id=$2 AND paper_id=$3`, highlightID, userID, paperID)
	if err != nil {
		return fmt.Errorf("delete highlight: %w", err)
	}
	return nil
}
