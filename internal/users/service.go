package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-backend/internal/portfolios"
)

// PortfolioLister returns a user's portfolios.
type PortfolioLister interface {
	ListByUser(ctx context.Context, userID string) ([]portfolios.Portfolio, error)
}

type Service struct {
	Repo       Repo
	Portfolios PortfolioLister
	Now        func() time.Time
}

func NewService(repo Repo, lister PortfolioLister) *Service {
	return &Service{Repo: repo, Portfolios: lister}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// UpsertFromLogin records the identity returned by the OAuth provider.
func (s *Service) UpsertFromLogin(ctx context.Context, user User) error {
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return errors.New("user id and email are required")
	}
	now := s.now()
	user.CreatedAt = now
	user.LastLoginAt = now
	return s.Repo.Upsert(ctx, user)
}

// Profile is the signed-in user's view of themselves.
type Profile struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	PictureURL     string     `json:"pictureUrl"`
	PortfolioCount int        `json:"portfolioCount"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
}

// Me loads the stored profile. When no row exists yet the token claims in
// fallback are returned as-is.
func (s *Service) Me(ctx context.Context, fallback User) (Profile, error) {
	if strings.TrimSpace(fallback.ID) == "" {
		return Profile{}, errors.New("user id is required")
	}
	user, err := s.Repo.GetByID(ctx, fallback.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		user = fallback
	case err != nil:
		return Profile{}, err
	}

	p := Profile{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		PictureURL: user.PictureURL,
	}
	if !user.LastLoginAt.IsZero() {
		last := user.LastLoginAt
		p.LastLoginAt = &last
	}
	if s.Portfolios != nil {
		items, err := s.Portfolios.ListByUser(ctx, user.ID)
		if err != nil {
			return Profile{}, err
		}
		p.PortfolioCount = len(items)
	}
	return p, nil
}
