package cleanup

import "context"

// Client sends cleanup jobs to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
