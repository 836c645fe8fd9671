package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"paperdesk/internal/models"

	"github.com/jackc/pgx/v5"
)

type TranslationRepo struct {
	db *DB
}

func NewTranslationRepo(db *DB) *TranslationRepo {
	return &TranslationRepo{db: db}
}

func (r *TranslationRepo) GetByPaperAndLanguage(ctx context.Context, paperID, language string) (models.Translation, error) {
	var (
		t        models.Translation
		sections []byte
	)
	err := r.db.Pool.QueryRow(ctx, `
SELECT translation_id, paper_id, language, sections, created_at
FROM translations WHERE paper_id=$1 AND language=$2`, paperID, language).
		Scan(&t.TranslationID, &t.PaperID, &t.Language, &sections, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Translation{}, ErrNotFound
	}
	if err != nil {
		return models.Translation{}, fmt.Errorf("get translation: %w", err)
	}
	if err := json.Unmarshal(sections, &t.Sections); err != nil {
		return models.Translation{}, fmt.Errorf("unmarshal translation sections: %w", err)
	}
	return t, nil
}

// CreateIfAbsent inserts the translation unless one already exists for the
// (paper, language) pair, and returns the stored record either way. Under
// concurrent creation the first writer wins and every caller observes the
// same row.
func (r *TranslationRepo) CreateIfAbsent(ctx context.Context, t models.Translation) (models.Translation, error) {
	sections, err := json.Marshal(t.Sections)
	if err != nil {
		return models.Translation{}, fmt.Errorf("marshal translation sections: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
INSERT INTO translations (translation_id, paper_id, language, sections, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (paper_id, language) DO NOTHING`,
		t.TranslationID, t.PaperID, t.Language, sections, t.CreatedAt,
	)
	if err != nil {
		return models.Translation{}, fmt.Errorf("create translation: %w", err)
	}
	return r.GetByPaperAndLanguage(ctx, t.PaperID, t.Language)
}

func (r *TranslationRepo) ListLanguages(ctx context.Context, paperID string) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT language FROM translations WHERE paper_id=$1 ORDER BY language`, paperID)
	if err != nil {
		return nil, fmt.Errorf("list translation languages: %w", err)
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		out = append(out, lang)
	}
	return out, rows.Err()
}

func (r *TranslationRepo) DeleteByPaper(ctx context.Context, paperID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM translations WHERE paper_id=$1`, paperID)
	if err != nil {
		return fmt.Errorf("delete translations: %w", err)
	}
	return nil
}
