package llm

import (
	"context"
	"errors"
)

// Request is a single JSON-mode completion: an optional system instruction
// plus the user prompt.
type Request struct {
	System string
	Prompt string
}

// Client abstracts LLM providers. Complete returns the raw model output,
// which callers expect to be a JSON object.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderClient) Complete(ctx context.Context, req Request) (string, error) {
	return "", ErrNotImplemented
}
