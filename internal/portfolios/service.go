package portfolios

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTemplateID is used when neither the caller nor configuration picks one.
const DefaultTemplateID = "modern"

// ResumeOwnership answers whether a user uploaded a given resume file.
type ResumeOwnership interface {
	OwnsFile(ctx context.Context, userID, fileID string) (bool, error)
}

// Service contains business logic for portfolio CRUD. Resumes checks
// resumeId links on create; without it a resumeId is rejected.
type Service struct {
	Repo            Repo
	DefaultTemplate string
	Resumes         ResumeOwnership
	Now             func() time.Time
}

// CreateInput carries the fields of a new portfolio.
type CreateInput struct {
	UserID     string
	Name       string
	TemplateID string
	Content    Content
	ResumeID   string
}

// UpdateInput fully replaces name, template and content.
type UpdateInput struct {
	ID         string
	UserID     string
	Name       string
	TemplateID string
	Content    Content
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) defaultTemplate() string {
	if IsKnownTemplate(s.DefaultTemplate) {
		return strings.TrimSpace(s.DefaultTemplate)
	}
	return DefaultTemplateID
}

// Create validates and stores a new portfolio with a zero view counter.
func (s *Service) Create(ctx context.Context, in CreateInput) (Portfolio, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return Portfolio{}, fmt.Errorf("%w: userId is required", ErrValidation)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = strings.TrimSpace(in.Content.Name)
	}
	templateID := strings.TrimSpace(in.TemplateID)
	if templateID == "" {
		templateID = s.defaultTemplate()
	}
	if err := validateFields(name, templateID, in.Content); err != nil {
		return Portfolio{}, err
	}
	resumeID := strings.TrimSpace(in.ResumeID)
	if resumeID != "" {
		if err := s.checkResumeOwner(ctx, in.UserID, resumeID); err != nil {
			return Portfolio{}, err
		}
	}

	now := s.now()
	p := Portfolio{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		Name:       name,
		Content:    in.Content.Normalize(),
		TemplateID: templateID,
		ResumeID:   resumeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return Portfolio{}, fmt.Errorf("create portfolio: %w", err)
	}
	return p, nil
}

func (s *Service) checkResumeOwner(ctx context.Context, userID, resumeID string) error {
	if s.Resumes == nil {
		return fmt.Errorf("%w: resumeId is not supported", ErrValidation)
	}
	ok, err := s.Resumes.OwnsFile(ctx, userID, resumeID)
	if err != nil {
		return fmt.Errorf("check resume owner: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: resumeId does not match one of your uploaded files", ErrValidation)
	}
	return nil
}

// Get returns a portfolio by id. Portfolios are public once created.
func (s *Service) Get(ctx context.Context, id string) (Portfolio, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Portfolio{}, fmt.Errorf("%w: Portfolio ID is required", ErrValidation)
	}
	return s.Repo.GetByID(ctx, id)
}

// ListByUser returns the caller's portfolios, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Portfolio, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Update replaces a portfolio's editable fields. Only the owner may update.
func (s *Service) Update(ctx context.Context, in UpdateInput) (Portfolio, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return Portfolio{}, fmt.Errorf("%w: Portfolio ID is required", ErrValidation)
	}
	cur, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Portfolio{}, err
	}
	if cur.UserID != in.UserID {
		return Portfolio{}, ErrForbidden
	}

	name := strings.TrimSpace(in.Name)
	templateID := strings.TrimSpace(in.TemplateID)
	if templateID == "" {
		templateID = cur.TemplateID
	}
	if err := validateFields(name, templateID, in.Content); err != nil {
		return Portfolio{}, err
	}

	cur.Name = name
	cur.TemplateID = templateID
	cur.Content = in.Content.Normalize()
	cur.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, cur); err != nil {
		return Portfolio{}, fmt.Errorf("update portfolio: %w", err)
	}
	return cur, nil
}
