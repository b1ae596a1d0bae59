package views

import "time"

// DefaultWindow is the sliding dedup window for one client address.
const DefaultWindow = 24 * time.Hour

// UnknownAddress stands in for clients whose address cannot be determined.
const UnknownAddress = "unknown"

// ViewEvent records that a client address viewed a portfolio.
type ViewEvent struct {
	ID            string
	PortfolioID   string
	ClientAddress string
	ViewedAt      time.Time
}

// Result is the outcome of recording a view.
type Result struct {
	// Counted is true when this call incremented the portfolio's counter.
	Counted bool
	// Views is the counter after the call.
	Views int64
	// CountedAt is when the view that opened the current window was recorded.
	CountedAt time.Time
}
