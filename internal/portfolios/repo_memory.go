package portfolios

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Portfolio
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Portfolio),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, p Portfolio) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[p.ID] = p
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return Portfolio{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.data[id]
	if !ok {
		return Portfolio{}, ErrNotFound
	}
	return p, nil
}

// ListByUser returns the user's portfolios, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Portfolio, 0)
	for _, p := range r.data {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update replaces name, template and content. Views are left untouched.
func (r *MemoryRepo) Update(ctx context.Context, p Portfolio) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.data[p.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Name = p.Name
	cur.TemplateID = p.TemplateID
	cur.Content = p.Content
	cur.UpdatedAt = p.UpdatedAt
	r.data[p.ID] = cur
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// IncrementViews adds one to the portfolio's view counter and returns the new
// value. The in-memory view repository is its only caller.
func (r *MemoryRepo) IncrementViews(ctx context.Context, id string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return 0, ErrNotFound
	}
	p.Views++
	r.data[id] = p
	return p.Views, nil
}

// ViewCount returns the portfolio's current view counter.
func (r *MemoryRepo) ViewCount(ctx context.Context, id string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.data[id]
	if !ok {
		return 0, ErrNotFound
	}
	return p.Views, nil
}

var _ Repo = (*MemoryRepo)(nil)
