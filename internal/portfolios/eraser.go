package portfolios

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio-backend/internal/cleanup"
	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/telemetry"
)

// Cleanup step names reported in DeleteResult.
const (
	StepViewEvents = cleanup.KindViewEvents
	StepResumeFile = cleanup.KindResumeFile
)

// Eraser removes a portfolio and the records that hang off it. Only the
// portfolio row deletion is allowed to fail the operation.
type Eraser struct {
	Repo    Repo
	Views   cleanup.ViewEventDeleter
	Resumes cleanup.ResumeFileRemover
	// Queue receives retry jobs for failed cleanup steps. Optional.
	Queue cleanup.Client
}

type DeleteInput struct {
	PortfolioID string
	// RequesterID, when set, must own the portfolio.
	RequesterID string
	RequestID   string
}

// StepResult reports the outcome of one best-effort cleanup step.
type StepResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type DeleteResult struct {
	PortfolioID string       `json:"portfolioId"`
	Steps       []StepResult `json:"steps"`
}

// Failed returns the steps that did not complete.
func (r DeleteResult) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if !s.OK {
			out = append(out, s)
		}
	}
	return out
}

// Delete runs the cascading delete: view events, then the linked resume file,
// then the portfolio itself.
func (e *Eraser) Delete(ctx context.Context, in DeleteInput) (DeleteResult, error) {
	id := strings.TrimSpace(in.PortfolioID)
	if id == "" {
		metrics.IncPortfolioDelete("invalid")
		return DeleteResult{}, fmt.Errorf("%w: Portfolio ID is required", ErrValidation)
	}

	p, err := e.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.IncPortfolioDelete("not_found")
			return DeleteResult{}, ErrNotFound
		}
		metrics.IncPortfolioDelete("error")
		return DeleteResult{}, fmt.Errorf("load portfolio: %w", err)
	}
	if in.RequesterID != "" && p.UserID != in.RequesterID {
		metrics.IncPortfolioDelete("not_found")
		return DeleteResult{}, ErrNotFound
	}

	result := DeleteResult{PortfolioID: id}
	logFields := map[string]any{"portfolio_id": id, "request_id": in.RequestID}

	result.Steps = append(result.Steps, e.runStep(StepViewEvents, logFields, func() error {
		if e.Views == nil {
			return errors.New("view event store not configured")
		}
		_, err := e.Views.DeleteByPortfolio(ctx, id)
		return err
	}))

	if p.ResumeID != "" {
		result.Steps = append(result.Steps, e.runStep(StepResumeFile, logFields, func() error {
			if e.Resumes == nil {
				return errors.New("resume file store not configured")
			}
			return e.Resumes.DeleteFile(ctx, p.UserID, p.ResumeID)
		}))
	}

	if err := e.Repo.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		metrics.IncPortfolioDelete("error")
		telemetry.Error("portfolio.delete_failed", map[string]any{
			"portfolio_id": id,
			"request_id":   in.RequestID,
			"error":        err.Error(),
		})
		return result, fmt.Errorf("delete portfolio: %w", err)
	}

	for _, step := range result.Failed() {
		e.enqueueRetry(ctx, step.Name, p, in.RequestID)
	}

	outcome := "ok"
	if len(result.Failed()) > 0 {
		outcome = "partial"
	}
	metrics.IncPortfolioDelete(outcome)
	telemetry.Info("portfolio.deleted", map[string]any{
		"portfolio_id":  id,
		"request_id":    in.RequestID,
		"failed_steps":  len(result.Failed()),
		"cleanup_steps": len(result.Steps),
	})
	return result, nil
}

func (e *Eraser) runStep(name string, logFields map[string]any, fn func() error) StepResult {
	if err := fn(); err != nil {
		metrics.IncCleanupFailure(name)
		fields := map[string]any{"step": name, "error": err.Error()}
		for k, v := range logFields {
			fields[k] = v
		}
		telemetry.Warn("portfolio.cleanup_step_failed", fields)
		return StepResult{Name: name, OK: false, Error: err.Error()}
	}
	return StepResult{Name: name, OK: true}
}

func (e *Eraser) enqueueRetry(ctx context.Context, step string, p Portfolio, requestID string) {
	if e.Queue == nil {
		return
	}
	resumeID := ""
	if step == StepResumeFile {
		resumeID = p.ResumeID
	}
	msg := cleanup.NewMessage(step, p.ID, resumeID, requestID)
	msg.OwnerID = p.UserID
	if err := e.Queue.Send(ctx, msg); err != nil {
		telemetry.Error("portfolio.cleanup_enqueue_failed", map[string]any{
			"portfolio_id": p.ID,
			"step":         step,
			"request_id":   requestID,
			"error":        err.Error(),
		})
	}
}
