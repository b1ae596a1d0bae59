package cleanup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/telemetry"
)

// ViewEventDeleter removes every view event recorded for a portfolio.
type ViewEventDeleter interface {
	DeleteByPortfolio(ctx context.Context, portfolioID string) (int64, error)
}

// ResumeFileRemover deletes a resume file's blob and record. Deleting a file
// that no longer exists succeeds, and a file owned by another user is left
// in place.
type ResumeFileRemover interface {
	DeleteFile(ctx context.Context, ownerID, fileID string) error
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrInvalidMessage indicates a well-formed payload that cannot be acted on.
type ErrInvalidMessage struct {
	Meta   MessageMeta
	Reason string
}

func (e ErrInvalidMessage) Error() string { return "invalid message: " + e.Reason }

// ErrProcess indicates the cleanup step itself failed and should be retried.
type ErrProcess struct {
	Kind        string
	PortfolioID string
	Err         error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process " + e.Kind
	}
	return "process " + e.Kind + ": " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// IsPermanent reports whether err can never succeed on retry.
func IsPermanent(err error) bool {
	var empty ErrEmptyBody
	var decode ErrDecode
	var invalid ErrInvalidMessage
	return errors.As(err, &empty) || errors.As(err, &decode) || errors.As(err, &invalid)
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := DecodeMessage([]byte(body))
	if err != nil {
		return Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	switch msg.Kind {
	case KindViewEvents:
		if strings.TrimSpace(msg.PortfolioID) == "" {
			return msg, meta, ErrInvalidMessage{Meta: meta, Reason: "missing portfolio id"}
		}
	case KindResumeFile:
		if strings.TrimSpace(msg.ResumeFileID) == "" {
			return msg, meta, ErrInvalidMessage{Meta: meta, Reason: "missing resume file id"}
		}
		if strings.TrimSpace(msg.OwnerID) == "" {
			return msg, meta, ErrInvalidMessage{Meta: meta, Reason: "missing owner id"}
		}
	default:
		return msg, meta, ErrInvalidMessage{Meta: meta, Reason: fmt.Sprintf("unknown kind %q", msg.Kind)}
	}
	return msg, meta, nil
}

// Processor replays failed cleanup steps. Every step is idempotent, so
// at-least-once delivery is safe.
type Processor struct {
	Views   ViewEventDeleter
	Resumes ResumeFileRemover
}

// HandleBody parses a raw queue payload and processes it.
func (p *Processor) HandleBody(ctx context.Context, body string) error {
	msg, _, err := ParseMessage(body)
	if err != nil {
		metrics.IncCleanupJob("invalid")
		return err
	}
	return p.Handle(ctx, msg)
}

// Handle performs the cleanup step named by msg.Kind.
func (p *Processor) Handle(ctx context.Context, msg Message) error {
	fields := map[string]any{
		"kind":         msg.Kind,
		"portfolio_id": msg.PortfolioID,
		"request_id":   msg.RequestID,
	}

	var err error
	switch msg.Kind {
	case KindViewEvents:
		if p.Views == nil {
			err = errors.New("view event store not configured")
			break
		}
		var n int64
		n, err = p.Views.DeleteByPortfolio(ctx, msg.PortfolioID)
		fields["deleted"] = n
	case KindResumeFile:
		fields["resume_file_id"] = msg.ResumeFileID
		if p.Resumes == nil {
			err = errors.New("resume file store not configured")
			break
		}
		err = p.Resumes.DeleteFile(ctx, msg.OwnerID, msg.ResumeFileID)
	default:
		metrics.IncCleanupJob("invalid")
		return ErrInvalidMessage{Reason: fmt.Sprintf("unknown kind %q", msg.Kind)}
	}

	if err != nil {
		fields["error"] = err.Error()
		telemetry.Warn("cleanup.failed", fields)
		metrics.IncCleanupJob("failed")
		return ErrProcess{Kind: msg.Kind, PortfolioID: msg.PortfolioID, Err: err}
	}
	telemetry.Info("cleanup.done", fields)
	metrics.IncCleanupJob("done")
	return nil
}
