package storage

import (
	"context"
	"fmt"

	"paperdesk/internal/models"

	"github.com/jackc/pgx/v5"
)

// Media repositories hold the per-paper ordered collections. All listing is
// order-index ascending regardless of insertion order.

type FigureRepo struct {
	db *DB
}

func NewFigureRepo(db *DB) *FigureRepo {
	return &FigureRepo{db: db}
}

func (r *FigureRepo) CreateBatch(ctx context.Context, figures []models.Figure) error {
	if len(figures) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, f := range figures {
		batch.Queue(`
INSERT INTO figures (figure_id, paper_id, caption, image_url, order_index)
VALUES ($1, $2, $3, $4, $5)`,
			f.FigureID, f.PaperID, f.Caption, f.ImageURL, f.OrderIndex)
	}
	if err := r.db.Pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("create figures: %w", err)
	}
	return nil
}

func (r *FigureRepo) ListByPaper(ctx context.Context, paperID string) ([]models.Figure, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT figure_id, paper_id, caption, image_url, order_index
FROM figures WHERE paper_id=$1 ORDER BY order_index ASC`, paperID)
	if err != nil {
		return nil, fmt.Errorf("list figures: %w", err)
	}
	defer rows.Close()
	out := make([]models.Figure, 0)
	for rows.Next() {
		var f models.Figure
		if err := rows.Scan(&f.FigureID, &f.PaperID, &f.Caption, &f.ImageURL, &f.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan figure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FigureRepo) DeleteByPaper(ctx context.Context, paperID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM figures WHERE paper_id=$1`, paperID)
	if err != nil {
		return fmt.Errorf("delete figures: %w", err)
	}
	return nil
}

type TableRepo struct {
	db *DB
}

func NewTableRepo(db *DB) *TableRepo {
	return &TableRepo{db: db}
}

func (r *TableRepo) CreateBatch(ctx context.Context, tables []models.Table) error {
	if len(tables) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, t := range tables {
		batch.Queue(`
INSERT INTO paper_tables (table_id, paper_id, caption, content, order_index)
VALUES ($1, $2, $3, $4, $5)`,
			t.TableID, t.PaperID, t.Caption, t.Content, t.OrderIndex)
	}
	if err := r.db.Pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

func (r *TableRepo) ListByPaper(ctx context.Context, paperID string) ([]models.Table, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT table_id, paper_id, caption, content, order_index
FROM paper_tables WHERE paper_id=$1 ORDER BY order_index ASC`, paperID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()
	out := make([]models.Table, 0)
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.TableID, &t.PaperID, &t.Caption, &t.Content, &t.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TableRepo) DeleteByPaper(ctx context.Context, paperID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM paper_tables WHERE paper_id=$1`, paperID)
	if err != nil {
		return fmt.Errorf("delete tables: %w", err)
	}
	return nil
}

type EquationRepo struct {
	db *DB
}

func NewEquationRepo(db *DB) *EquationRepo {
	return &EquationRepo{db: db}
}

func (r *EquationRepo) CreateBatch(ctx context.Context, equations []models.Equation) error {
	if len(equations) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range equations {
		batch.Queue(`
INSERT INTO equations (equation_id, paper_id, latex_content, order_index)
VALUES ($1, $2, $3, $4)`,
			e.EquationID, e.PaperID, e.LatexContent, e.OrderIndex)
	}
	if err := r.db.Pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("create equations: %w", err)
	}
	return nil
}

func (r *EquationRepo) ListByPaper(ctx context.Context, paperID string) ([]models.Equation, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT equation_id, paper_id, latex_content, order_index
FROM equations WHERE paper_id=$1 ORDER BY order_index ASC`, paperID)
	if err != nil {
		return nil, fmt.Errorf("list equations: %w", err)
	}
	defer rows.Close()
	out := make([]models.Equation, 0)
	for rows.Next() {
		var e models.Equation
		if err := rows.Scan(&e.EquationID, &e.PaperID, &e.LatexContent, &e.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan equation: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EquationRepo) DeleteByPaper(ctx context.Context, paperID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM equations WHERE paper_id=$1`, paperID)
	if err != nil {
		return fmt.Errorf("delete equations: %w", err)
	}
	return nil
}
