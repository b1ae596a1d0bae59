package portfolios

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const portfolioColumns = `id, user_id, name, content, template_id, resume_id, views, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(row rowScanner) (Portfolio, error) {
	var p Portfolio
	var content []byte
	var resumeID sql.NullString
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&content,
		&p.TemplateID,
		&resumeID,
		&p.Views,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return Portfolio{}, err
	}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &p.Content); err != nil {
			return Portfolio{}, fmt.Errorf("decode portfolio content: %w", err)
		}
	}
	p.Content = p.Content.Normalize()
	if resumeID.Valid {
		p.ResumeID = resumeID.String
	}
	return p, nil
}

func (r *PGRepo) Create(ctx context.Context, p Portfolio) error {
	const query = `
INSERT INTO portfolios (id, user_id, name, content, template_id, resume_id, views, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)`

	content, err := json.Marshal(p.Content)
	if err != nil {
		return fmt.Errorf("encode portfolio content: %w", err)
	}
	var resumeID sql.NullString
	if p.ResumeID != "" {
		resumeID = sql.NullString{String: p.ResumeID, Valid: true}
	}

	_, err = r.DB.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		content,
		p.TemplateID,
		resumeID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = $1`
	p, err := scanPortfolio(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Portfolio{}, ErrNotFound
		}
		return Portfolio{}, err
	}
	return p, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Portfolio, 0)
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p Portfolio) error {
	const query = `
UPDATE portfolios
SET name = $1, content = $2, template_id = $3, updated_at = $4
WHERE id = $5`

	content, err := json.Marshal(p.Content)
	if err != nil {
		return fmt.Errorf("encode portfolio content: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, query, p.Name, content, p.TemplateID, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM portfolios WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
