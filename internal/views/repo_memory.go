package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"portfolio-backend/internal/portfolios"
)

// PortfolioCounter is the view counter the in-memory repo increments.
type PortfolioCounter interface {
	ViewCount(ctx context.Context, id string) (int64, error)
	IncrementViews(ctx context.Context, id string) (int64, error)
}

// MemoryRepo is an in-memory implementation of Repo. A single mutex
// serializes RecordIfAbsent so concurrent calls cannot double count.
type MemoryRepo struct {
	mu      sync.Mutex
	events  map[string][]ViewEvent // portfolioID -> events
	counter PortfolioCounter
}

// NewMemoryRepo constructs a MemoryRepo backed by counter.
func NewMemoryRepo(counter PortfolioCounter) *MemoryRepo {
	return &MemoryRepo{
		events:  make(map[string][]ViewEvent),
		counter: counter,
	}
}

func (r *MemoryRepo) RecordIfAbsent(ctx context.Context, ev ViewEvent, windowStart time.Time) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.counter.ViewCount(ctx, ev.PortfolioID)
	if err != nil {
		return Result{}, mapCounterErr(err)
	}

	var latest time.Time
	for _, existing := range r.events[ev.PortfolioID] {
		if existing.ClientAddress == ev.ClientAddress && existing.ViewedAt.After(windowStart) && existing.ViewedAt.After(latest) {
			latest = existing.ViewedAt
		}
	}
	if !latest.IsZero() {
		return Result{Counted: false, Views: current, CountedAt: latest}, nil
	}

	views, err := r.counter.IncrementViews(ctx, ev.PortfolioID)
	if err != nil {
		return Result{}, mapCounterErr(err)
	}
	r.events[ev.PortfolioID] = append(r.events[ev.PortfolioID], ev)
	return Result{Counted: true, Views: views, CountedAt: ev.ViewedAt}, nil
}

func (r *MemoryRepo) DeleteByPortfolio(ctx context.Context, portfolioID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.events[portfolioID])
	delete(r.events, portfolioID)
	return int64(n), nil
}

// Events returns a copy of the events recorded for a portfolio.
func (r *MemoryRepo) Events(portfolioID string) []ViewEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ViewEvent, len(r.events[portfolioID]))
	copy(out, r.events[portfolioID])
	return out
}

// Backdate shifts every stored event for the pair back by d.
func (r *MemoryRepo) Backdate(portfolioID, clientAddress string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events[portfolioID]
	for i := range events {
		if events[i].ClientAddress == clientAddress {
			events[i].ViewedAt = events[i].ViewedAt.Add(-d)
		}
	}
}

func mapCounterErr(err error) error {
	if errors.Is(err, portfolios.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

var _ Repo = (*MemoryRepo)(nil)
