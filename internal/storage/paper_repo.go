package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"paperdesk/internal/models"

	"github.com/jackc/pgx/v5"
)

type PaperRepo struct {
	db *DB
}

func NewPaperRepo(db *DB) *PaperRepo {
	return &PaperRepo{db: db}
}

// PaperFilter narrows the creation-time-ordered paper listing.
type PaperFilter struct {
	Tags      []string
	Authors   []string
	From      *time.Time
	To        *time.Time
	PageSize  int
	PageToken string
}

type pageCursor struct {
	CreatedAt time.Time `json:"created_at"`
	PaperID   string    `json:"paper_id"`
}

func encodePageToken(c pageCursor) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodePageToken(token string) (pageCursor, error) {
	var c pageCursor
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return c, fmt.Errorf("decode page token: %w", err)
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("decode page token: %w", err)
	}
	return c, nil
}

const paperColumns = `paper_id, title, authors, description, tags,
       COALESCE(original_url,''), COALESCE(pdf_url,''), page_count, created_at, updated_at`

func (r *PaperRepo) Create(ctx context.Context, p models.Paper) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO papers (paper_id, title, authors, description, tags, original_url, pdf_url, page_count, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6,''), NULLIF($7,''), $8, $9, $10)`,
		p.PaperID, p.Title, p.Authors, p.Description, p.Tags, p.OriginalURL, p.PDFURL, p.PageCount, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create paper: %w", err)
	}
	return nil
}

func (r *PaperRepo) GetByID(ctx context.Context, paperID string) (models.Paper, error) {
	var p models.Paper
	err := r.db.Pool.QueryRow(ctx, `SELECT `+paperColumns+` FROM papers WHERE paper_id=$1`, paperID).
		Scan(&p.PaperID, &p.Title, &p.Authors, &p.Description, &p.Tags, &p.OriginalURL, &p.PDFURL, &p.PageCount, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Paper{}, ErrNotFound
	}
	if err != nil {
		return models.Paper{}, fmt.Errorf("get paper: %w", err)
	}
	return p, nil
}

// Update rewrites the mutable metadata columns. The paper identifier and
// created_at are immutable once assigned.
func (r *PaperRepo) Update(ctx context.Context, p models.Paper) error {
	tag, err := r.db.Pool.Exec(ctx, `
UPDATE papers
SET title=$2, authors=$3, description=$4, tags=$5, original_url=NULLIF($6,''), pdf_url=NULLIF($7,''), updated_at=$8
WHERE paper_id=$1`,
		p.PaperID, p.Title, p.Authors, p.Description, p.Tags, p.OriginalURL, p.PDFURL, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update paper: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PaperRepo) Delete(ctx context.Context, paperID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM papers WHERE paper_id=$1`, paperID)
	if err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}
	return nil
}

// List returns papers newest-first with keyset pagination; the returned token
// is opaque to callers and empty on the last page.
func (r *PaperRepo) List(ctx context.Context, filter PaperFilter) ([]models.Paper, string, error) {
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Tags) > 0 {
		where = append(where, "tags && "+arg(filter.Tags))
	}
	if len(filter.Authors) > 0 {
		where = append(where, "authors && "+arg(filter.Authors))
	}
	if filter.From != nil {
		where = append(where, "created_at >= "+arg(*filter.From))
	}
	if filter.To != nil {
		where = append(where, "created_at <= "+arg(*filter.To))
	}
	if filter.PageToken != "" {
		cursor, err := decodePageToken(filter.PageToken)
		if err != nil {
			return nil, "", err
		}
		where = append(where, fmt.Sprintf("(created_at, paper_id) < (%s, %s)", arg(cursor.CreatedAt), arg(cursor.PaperID)))
	}

	q := `SELECT ` + paperColumns + ` FROM papers`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, paper_id DESC LIMIT " + arg(pageSize+1)

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, "", fmt.Errorf("list papers: %w", err)
	}
	defer rows.Close()

	out := make([]models.Paper, 0, pageSize)
	for rows.Next() {
		var p models.Paper
		if err := rows.Scan(&p.PaperID, &p.Title, &p.Authors, &p.Description, &p.Tags, &p.OriginalURL, &p.PDFURL, &p.PageCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, "", fmt.Errorf("scan paper: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterate papers: %w", err)
	}

	nextToken := ""
	if len(out) > pageSize {
		out = out[:pageSize]
		last := out[len(out)-1]
		nextToken = encodePageToken(pageCursor{CreatedAt: last.CreatedAt, PaperID: last.PaperID})
	}
	return out, nextToken, nil
}
