package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"paperdesk/internal/models"

	"github.com/jackc/pgx/v5"
)

// ContentRepo stores the full section/paragraph tree, one row per paper, with
// the tree serialized as a single JSON document.
type ContentRepo struct {
	db *DB
}

func NewContentRepo(db *DB) *ContentRepo {
	return &ContentRepo{db: db}
}

func (r *ContentRepo) Create(ctx context.Context, c models.TextContent) error {
	sections, err := json.Marshal(c.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
INSERT INTO text_contents (content_id, paper_id, sections)
VALUES ($1, $2, $3)`,
		c.ContentID, c.PaperID, sections,
	)
	if err != nil {
		return fmt.Errorf("create text content: %w", err)
	}
	return nil
}

func (r *ContentRepo) GetByPaperID(ctx context.Context, paperID string) (models.TextContent, error) {
	var (
		c        models.TextContent
		sections []byte
	)
	err := r.db.Pool.QueryRow(ctx, `
SELECT content_id, paper_id, sections FROM text_contents WHERE paper_id=$1`, paperID).
		Scan(&c.ContentID, &c.PaperID, &sections)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.TextContent{}, ErrNotFound
	}
	if err != nil {
		return models.TextContent{}, fmt.Errorf("get text content: %w", err)
	}
	if err := json.Unmarshal(sections, &c.Sections); err != nil {
		return models.TextContent{}, fmt.Errorf("unmarshal sections: %w", err)
	}
	return c, nil
}

func (r *ContentRepo) DeleteByPaperID(ctx context.Context, paperID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM text_contents WHERE paper_id=$1`, paperID)
	if err != nil {
		return fmt.Errorf("delete text content: %w", err)
	}
	return nil
}
