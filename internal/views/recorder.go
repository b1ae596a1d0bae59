package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/telemetry"
)

// Recorder counts portfolio views, at most once per client address per
// sliding window.
type Recorder struct {
	Repo Repo
	// Cache is optional. Cache errors are logged and never fail a request.
	Cache  Cache
	Now    func() time.Time
	Window time.Duration
}

func (r *Recorder) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *Recorder) window() time.Duration {
	if r.Window > 0 {
		return r.Window
	}
	return DefaultWindow
}

// RecordView counts a view of portfolioID from clientAddress unless that
// address was already counted within the window ending now.
func (r *Recorder) RecordView(ctx context.Context, portfolioID, clientAddress string) (Result, error) {
	portfolioID = strings.TrimSpace(portfolioID)
	if portfolioID == "" {
		return Result{}, fmt.Errorf("%w: Missing portfolioId", ErrValidation)
	}
	clientAddress = strings.TrimSpace(clientAddress)
	if clientAddress == "" {
		clientAddress = UnknownAddress
	}

	now := r.now()
	windowStart := now.Add(-r.window())

	if r.Cache != nil {
		seen, err := r.Cache.Seen(ctx, portfolioID, clientAddress)
		if err != nil {
			telemetry.Warn("views.cache_read_failed", map[string]any{
				"portfolio_id": portfolioID,
				"error":        err.Error(),
			})
		} else if seen {
			metrics.IncViewDeduplicated("cache")
			return Result{Counted: false}, nil
		}
	}

	res, err := r.Repo.RecordIfAbsent(ctx, ViewEvent{
		ID:            uuid.NewString(),
		PortfolioID:   portfolioID,
		ClientAddress: clientAddress,
		ViewedAt:      now,
	}, windowStart)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, fmt.Errorf("record view: %w", err)
	}

	if res.Counted {
		metrics.IncViewCounted()
	} else {
		metrics.IncViewDeduplicated("store")
	}
	if !res.CountedAt.IsZero() {
		r.remember(ctx, portfolioID, clientAddress, res.CountedAt.Add(r.window()).Sub(now))
	}
	return res, nil
}

// DeleteByPortfolio removes every stored view event for the portfolio and
// drops its cache entries.
func (r *Recorder) DeleteByPortfolio(ctx context.Context, portfolioID string) (int64, error) {
	n, err := r.Repo.DeleteByPortfolio(ctx, portfolioID)
	if err != nil {
		return 0, fmt.Errorf("delete view events: %w", err)
	}
	if r.Cache != nil {
		if err := r.Cache.Forget(ctx, portfolioID); err != nil {
			telemetry.Warn("views.cache_forget_failed", map[string]any{
				"portfolio_id": portfolioID,
				"error":        err.Error(),
			})
		}
	}
	return n, nil
}

func (r *Recorder) remember(ctx context.Context, portfolioID, clientAddress string, ttl time.Duration) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Remember(ctx, portfolioID, clientAddress, ttl); err != nil {
		telemetry.Warn("views.cache_write_failed", map[string]any{
			"portfolio_id": portfolioID,
			"error":        err.Error(),
		})
	}
}
