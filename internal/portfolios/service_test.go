package portfolios

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeOwnership struct {
	owned map[string]string
	err   error
}

func (f fakeOwnership) OwnsFile(ctx context.Context, userID, fileID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.owned[fileID] == userID, nil
}

func newTestService() *Service {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	return &Service{
		Repo:            NewMemoryRepo(),
		DefaultTemplate: "minimal",
		Now: func() time.Time {
			now = now.Add(time.Second)
			return now
		},
	}
}

func TestServiceCreateDefaults(t *testing.T) {
	svc := newTestService()

	p, err := svc.Create(context.Background(), CreateInput{
		UserID:  "u1",
		Content: Content{Name: "Grace Hopper", Title: "Rear Admiral"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected id")
	}
	if p.Name != "Grace Hopper" {
		t.Fatalf("expected name from content, got %q", p.Name)
	}
	if p.TemplateID != "minimal" {
		t.Fatalf("expected configured default template, got %q", p.TemplateID)
	}
	if p.Views != 0 {
		t.Fatalf("expected zero views, got %d", p.Views)
	}
	if p.Content.Skills == nil || p.Content.Experience == nil {
		t.Fatalf("expected normalized slices")
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newTestService()
	cases := []struct {
		name string
		in   CreateInput
		want string
	}{
		{name: "missing user", in: CreateInput{Content: Content{Name: "A"}}, want: "userId is required"},
		{name: "missing name", in: CreateInput{UserID: "u1"}, want: "name is required"},
		{name: "unknown template", in: CreateInput{UserID: "u1", TemplateID: "neon", Content: Content{Name: "A"}}, want: `unknown templateId "neon"`},
		{
			name: "relative social url",
			in: CreateInput{UserID: "u1", Content: Content{
				Name:   "A",
				Social: []SocialLink{{Platform: "github", URL: "github.com/a"}},
			}},
			want: "content.social[0].url must be an absolute http(s) URL",
		},
		{
			name: "bad project scheme",
			in: CreateInput{UserID: "u1", Content: Content{
				Name:     "A",
				Projects: []Project{{Name: "x", URL: "ftp://example.com"}},
			}},
			want: "content.projects[0].url must be an absolute http(s) URL",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.in)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if got := validationMessage(err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestServiceUpdateReplacesFieldsAndKeepsViews(t *testing.T) {
	svc := newTestService()
	repo := svc.Repo.(*MemoryRepo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{UserID: "u1", Name: "Old", Content: Content{Name: "Old", Skills: []string{"go"}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.IncrementViews(ctx, p.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}

	updated, err := svc.Update(ctx, UpdateInput{
		ID:         p.ID,
		UserID:     "u1",
		Name:       "New",
		TemplateID: "developer",
		Content:    Content{Name: "New"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "New" || updated.TemplateID != "developer" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if len(updated.Content.Skills) != 0 {
		t.Fatalf("expected content fully replaced, got skills %v", updated.Content.Skills)
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Views != 1 {
		t.Fatalf("expected views preserved, got %d", got.Views)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatalf("expected updatedAt to advance")
	}
}

func TestServiceUpdateRequiresOwner(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p, err := svc.Create(ctx, CreateInput{UserID: "u1", Content: Content{Name: "A"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(ctx, UpdateInput{ID: p.ID, UserID: "u2", Name: "B", Content: Content{Name: "B"}})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestServiceListByUserNewestFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	first, _ := svc.Create(ctx, CreateInput{UserID: "u1", Content: Content{Name: "First"}})
	second, _ := svc.Create(ctx, CreateInput{UserID: "u1", Content: Content{Name: "Second"}})
	_, _ = svc.Create(ctx, CreateInput{UserID: "u2", Content: Content{Name: "Other"}})

	items, err := svc.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != second.ID || items[1].ID != first.ID {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestServiceCreateChecksResumeOwner(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	svc.Resumes = fakeOwnership{owned: map[string]string{"f-victim": "victim", "f-own": "u1"}}

	_, err := svc.Create(ctx, CreateInput{UserID: "u1", Content: Content{Name: "A"}, ResumeID: "f-victim"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for foreign resume, got %v", err)
	}
	if got := validationMessage(err); got != "resumeId does not match one of your uploaded files" {
		t.Fatalf("unexpected message %q", got)
	}

	p, err := svc.Create(ctx, CreateInput{UserID: "u1", Content: Content{Name: "A"}, ResumeID: " f-own "})
	if err != nil {
		t.Fatalf("create with own resume: %v", err)
	}
	if p.ResumeID != "f-own" {
		t.Fatalf("ResumeID = %q", p.ResumeID)
	}

	svc.Resumes = fakeOwnership{err: errors.New("db down")}
	_, err = svc.Create(ctx, CreateInput{UserID: "u1", Content: Content{Name: "A"}, ResumeID: "f-own"})
	if err == nil || errors.Is(err, ErrValidation) {
		t.Fatalf("expected lookup failure, got %v", err)
	}

	svc.Resumes = nil
	_, err = svc.Create(ctx, CreateInput{UserID: "u1", Content: Content{Name: "A"}, ResumeID: "f-own"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without ownership lookup, got %v", err)
	}
}
