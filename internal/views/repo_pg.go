package views

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"portfolio-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const (
	lockPortfolioQuery = `SELECT views FROM portfolios WHERE id = $1 FOR UPDATE`
	recentViewQuery    = `
SELECT MAX(viewed_at) FROM portfolio_views
WHERE portfolio_id = $1 AND client_address = $2 AND viewed_at > $3`
	insertViewQuery = `
INSERT INTO portfolio_views (id, portfolio_id, client_address, viewed_at)
VALUES ($1, $2, $3, $4)`
	incrementViewsQuery = `UPDATE portfolios SET views = views + 1 WHERE id = $1 RETURNING views`
)

// RecordIfAbsent locks the portfolio row so concurrent calls for the same
// portfolio run one at a time.
func (r *PGRepo) RecordIfAbsent(ctx context.Context, ev ViewEvent, windowStart time.Time) (Result, error) {
	var res Result
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var current int64
		if err := tx.QueryRowContext(ctx, lockPortfolioQuery, ev.PortfolioID).Scan(&current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		var latest sql.NullTime
		if err := tx.QueryRowContext(ctx, recentViewQuery, ev.PortfolioID, ev.ClientAddress, windowStart).Scan(&latest); err != nil {
			return err
		}
		if latest.Valid {
			res = Result{Counted: false, Views: current, CountedAt: latest.Time}
			return nil
		}

		if _, err := tx.ExecContext(ctx, insertViewQuery, ev.ID, ev.PortfolioID, ev.ClientAddress, ev.ViewedAt); err != nil {
			return err
		}
		var views int64
		if err := tx.QueryRowContext(ctx, incrementViewsQuery, ev.PortfolioID).Scan(&views); err != nil {
			return err
		}
		res = Result{Counted: true, Views: views, CountedAt: ev.ViewedAt}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (r *PGRepo) DeleteByPortfolio(ctx context.Context, portfolioID string) (int64, error) {
	const query = `DELETE FROM portfolio_views WHERE portfolio_id = $1`
	res, err := r.DB.ExecContext(ctx, query, portfolioID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

var _ Repo = (*PGRepo)(nil)
