package storage

import (
	"context"
	"fmt"
)

// One logical table per entity type. The unique (paper_id, language) keys on
// translations and summaries are what makes the get-or-create flows converge
// to a single record under concurrent callers.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS papers (
		paper_id     TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		authors      TEXT[] NOT NULL DEFAULT '{}',
		description  TEXT NOT NULL DEFAULT '',
		tags         TEXT[] NOT NULL DEFAULT '{}',
		original_url TEXT,
		pdf_url      TEXT,
		page_count   INT NOT NULL DEFAULT 0,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS papers_created_at_idx ON papers (created_at DESC, paper_id DESC)`,
	`CREATE TABLE IF NOT EXISTS text_contents (
		content_id TEXT PRIMARY KEY,
		paper_id   TEXT NOT NULL UNIQUE,
		sections   JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS figures (
		figure_id   TEXT PRIMARY KEY,
		paper_id    TEXT NOT NULL,
		caption     TEXT NOT NULL DEFAULT '',
		image_url   TEXT NOT NULL DEFAULT '',
		order_index INT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS figures_paper_idx ON figures (paper_id, order_index)`,
	`CREATE TABLE IF NOT EXISTS paper_tables (
		table_id    TEXT PRIMARY KEY,
		paper_id    TEXT NOT NULL,
		caption     TEXT NOT NULL DEFAULT '',
		content     TEXT NOT NULL DEFAULT '',
		order_index INT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS paper_tables_paper_idx ON paper_tables (paper_id, order_index)`,
	`CREATE TABLE IF NOT EXISTS equations (
		equation_id   TEXT PRIMARY KEY,
		paper_id      TEXT NOT NULL,
		latex_content TEXT NOT NULL DEFAULT '',
		order_index   INT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS equations_paper_idx ON equations (paper_id, order_index)`,
	`CREATE TABLE IF NOT EXISTS translations (
		translation_id TEXT PRIMARY KEY,
		paper_id       TEXT NOT NULL,
		language       TEXT NOT NULL,
		sections       JSONB NOT NULL DEFAULT '[]',
		created_at     TIMESTAMPTZ NOT NULL,
		UNIQUE (paper_id, language)
	)`,
	`CREATE TABLE IF NOT EXISTS summaries (
		summary_id        TEXT PRIMARY KEY,
		paper_id          TEXT NOT NULL,
		language          TEXT NOT NULL,
		whole_summary     TEXT NOT NULL DEFAULT '',
		chapter_summaries JSONB NOT NULL DEFAULT '[]',
		created_at        TIMESTAMPTZ NOT NULL,
		UNIQUE (paper_id, language)
	)`,
	`CREATE TABLE IF NOT EXISTS highlights (
		highlight_id TEXT PRIMARY KEY,
		paper_id     TEXT NOT NULL,
		user_id      TEXT NOT NULL,
		paragraph_id TEXT NOT NULL,
		start_offset INT NOT NULL,
		end_offset   INT NOT NULL,
		color        TEXT NOT NULL DEFAULT '',
		note         TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS highlights_user_paper_idx ON highlights (user_id, paper_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS highlight_presets (
		preset_id  TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		color      TEXT NOT NULL DEFAULT '',
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS highlight_presets_user_idx ON highlight_presets (user_id, created_at)`,
}

func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
