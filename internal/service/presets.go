package service

import (
	"context"
	"strings"
	"time"

	"paperdesk/internal/models"

	"github.com/google/uuid"
)

type CreatePresetRequest struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	IsDefault bool   `json:"is_default"`
}

type UpdatePresetRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// Presets manages a user's named highlight colors. At most one preset per
// user is the default; promoting one demotes whichever held it before.
type Presets struct {
	presets PresetStore
}

func NewPresets(presets PresetStore) *Presets {
	return &Presets{presets: presets}
}

func (s *Presets) Create(ctx context.Context, userID string, req CreatePresetRequest) (models.HighlightColorPreset, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.HighlightColorPreset{}, validationf("name is required")
	}
	if strings.TrimSpace(req.Color) == "" {
		return models.HighlightColorPreset{}, validationf("color is required")
	}
	p := models.HighlightColorPreset{
		PresetID:  uuid.NewString(),
		UserID:    userID,
		Name:      req.Name,
		Color:     req.Color,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.presets.Create(ctx, p); err != nil {
		return models.HighlightColorPreset{}, err
	}
	if req.IsDefault {
		return s.SetDefault(ctx, p.PresetID, userID)
	}
	return p, nil
}

func (s *Presets) List(ctx context.Context, userID string) ([]models.HighlightColorPreset, error) {
	ps, err := s.presets.ListByUser(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return ps, nil
}

func (s *Presets) Update(ctx context.Context, presetID, userID string, req UpdatePresetRequest) (models.HighlightColorPreset, error) {
	p, err := s.presets.GetByID(ctx, presetID, userID)
	if err != nil {
		return models.HighlightColorPreset{}, mapNotFound(err)
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return models.HighlightColorPreset{}, validationf("name is required")
		}
		p.Name = *req.Name
	}
	if req.Color != nil {
		p.Color = *req.Color
	}
	if err := s.presets.Update(ctx, p); err != nil {
		return models.HighlightColorPreset{}, mapNotFound(err)
	}
	return p, nil
}

func (s *Presets) Delete(ctx context.Context, presetID, userID string) error {
	if _, err := s.presets.GetByID(ctx, presetID, userID); err != nil {
		return mapNotFound(err)
	}
	return mapNotFound(s.presets.Delete(ctx, presetID, userID))
}

// SetDefault promotes one preset and demotes the rest in a single store
// operation, so two racing promotions still leave exactly one default.
func (s *Presets) SetDefault(ctx context.Context, presetID, userID string) (models.HighlightColorPreset, error) {
	if _, err := s.presets.GetByID(ctx, presetID, userID); err != nil {
		return models.HighlightColorPreset{}, mapNotFound(err)
	}
	p, err := s.presets.SetDefault(ctx, presetID, userID)
	if err != nil {
		return models.HighlightColorPreset{}, mapNotFound(err)
	}
	return p, nil
}
