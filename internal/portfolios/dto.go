package portfolios

import (
	"errors"
	"strings"
	"time"
)

// PortfolioResponse is the outward-facing representation of a portfolio.
type PortfolioResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	TemplateID string    `json:"templateId"`
	ResumeID   string    `json:"resumeId,omitempty"`
	Content    Content   `json:"content"`
	Views      int64     `json:"views"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// toPublicResponse hides owner-only links from anonymous readers.
func toPublicResponse(p Portfolio) PortfolioResponse {
	resp := toResponse(p)
	resp.ResumeID = ""
	return resp
}

func toResponse(p Portfolio) PortfolioResponse {
	return PortfolioResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		Name:       p.Name,
		TemplateID: p.TemplateID,
		ResumeID:   p.ResumeID,
		Content:    p.Content.Normalize(),
		Views:      p.Views,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type createRequest struct {
	Name       string  `json:"name"`
	TemplateID string  `json:"templateId"`
	Content    Content `json:"content"`
	ResumeID   string  `json:"resumeId"`
}

type updateRequest struct {
	Name       string  `json:"name"`
	TemplateID string  `json:"templateId"`
	Content    Content `json:"content"`
}

type deleteRequest struct {
	PortfolioID string `json:"portfolioId"`
}

type deleteResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Cleanup []StepResult `json:"cleanup"`
}

// validationMessage strips the sentinel prefix so clients see only the detail.
func validationMessage(err error) string {
	if !errors.Is(err, ErrValidation) {
		return err.Error()
	}
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}
