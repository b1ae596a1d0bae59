package portfolios

import "context"

// Repo defines persistence operations for portfolios.
type Repo interface {
	Create(ctx context.Context, p Portfolio) error
	GetByID(ctx context.Context, id string) (Portfolio, error)
	ListByUser(ctx context.Context, userID string) ([]Portfolio, error)
	Update(ctx context.Context, p Portfolio) error
	Delete(ctx context.Context, id string) error
}
