package views

import (
	"context"
	"time"
)

// Repo persists view events together with the portfolio view counter.
type Repo interface {
	// RecordIfAbsent inserts ev and increments the portfolio counter unless an
	// event for the same portfolio and address exists after windowStart. The
	// check, the insert and the increment happen atomically.
	RecordIfAbsent(ctx context.Context, ev ViewEvent, windowStart time.Time) (Result, error)
	DeleteByPortfolio(ctx context.Context, portfolioID string) (int64, error)
}
