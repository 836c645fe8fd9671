package storage

import (
	"context"
	"errors"
	"fmt"

	"paperdesk/internal/models"

	"github.com/jackc/pgx/v5"
)

type PresetRepo struct {
	db *DB
}

func NewPresetRepo(db *DB) *PresetRepo {
	return &PresetRepo{db: db}
}

func (r *PresetRepo) Create(ctx context.Context, p models.HighlightColorPreset) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO highlight_presets (preset_id, user_id, name, color, is_default, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		p.PresetID, p.UserID, p.Name, p.Color, p.IsDefault, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create preset: %w", err)
	}
	return nil
}

func (r *PresetRepo) GetByID(ctx context.Context, presetID, userID string) (models.HighlightColorPreset, error) {
	var p models.HighlightColorPreset
	err := r.db.Pool.QueryRow(ctx, `
SELECT preset_id, user_id, name, color, is_default, created_at
FROM highlight_presets WHERE preset_id=$1 AND user_id=$2`, presetID, userID).
		Scan(&p.PresetID, &p.UserID, &p.Name, &p.Color, &p.IsDefault, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.HighlightColorPreset{}, ErrNotFound
	}
	if err != nil {
		return models.HighlightColorPreset{}, fmt.Errorf("get preset: %w", err)
	}
	return p, nil
}

func (r *PresetRepo) ListByUser(ctx context.Context, userID string) ([]models.HighlightColorPreset, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT preset_id, user_id, name, color, is_default, created_at
FROM highlight_presets WHERE user_id=$1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()
	out := make([]models.HighlightColorPreset, 0)
	for rows.Next() {
		var p models.HighlightColorPreset
		if err := rows.Scan(&p.PresetID, &p.UserID, &p.Name, &p.Color, &p.IsDefault, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PresetRepo) Update(ctx context.Context, p models.HighlightColorPreset) error {
	tag, err := r.db.Pool.Exec(ctx, `
UPDATE highlight_presets SET name=$3, color=$4 WHERE preset_id=$1 AND user_id=$2`,
		p.PresetID, p.UserID, p.Name, p.Color,
	)
	if err != nil {
		return fmt.Errorf("update preset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PresetRepo) Delete(ctx context.Context, presetID, userID string) error {
	_, err := r.db.Pool.Exec(ctx, `
DELETE FROM highlight_presets WHERE preset_id=$1 AND user_id=$2`, presetID, userID)
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	return nil
}

// SetDefault flips the default flag to exactly one preset for the user. The
// clear and set run in one statement so concurrent switches cannot leave zero
// or two defaults behind.
func (r *PresetRepo) SetDefault(ctx context.Context, presetID, userID string) (models.HighlightColorPreset, error) {
	tag, err := r.db.Pool.Exec(ctx, `
UPDATE highlight_presets SET is_default = (preset_id = $1) WHERE user_id=$2`, presetID, userID)
	if err != nil {
		return models.HighlightColorPreset{}, fmt.Errorf("set default preset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.HighlightColorPreset{}, ErrNotFound
	}
	return r.GetByID(ctx, presetID, userID)
}
