package resumes

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"portfolio-backend/internal/extract"
	"portfolio-backend/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	return &Service{Store: local.New(t.TempDir()), Repo: repo}, repo
}

func TestUploadStoresBlobAndRecord(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	f, err := svc.Upload(ctx, "u1", "resume.txt", strings.NewReader("Ada Lovelace\nAnalyst"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if f.ID == "" || f.StorageKey == "" {
		t.Fatalf("expected id and storage key, got %+v", f)
	}
	if !strings.HasPrefix(f.MimeType, "text/plain") {
		t.Fatalf("unexpected mime type %q", f.MimeType)
	}
	if f.SizeBytes != int64(len("Ada Lovelace\nAnalyst")) {
		t.Fatalf("unexpected size %d", f.SizeBytes)
	}
	if f.StorageProvider != "local" {
		t.Fatalf("expected local provider, got %q", f.StorageProvider)
	}

	stored, err := repo.GetByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.UserID != "u1" {
		t.Fatalf("expected owner u1, got %q", stored.UserID)
	}

	rc, err := svc.Store.Open(ctx, f.StorageKey)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "Ada Lovelace\nAnalyst" {
		t.Fatalf("unexpected blob %q", body)
	}
}

func TestUploadRejectsUnsupportedAndEmptyFiles(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, "u1", "photo.png", strings.NewReader("x")); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for png, got %v", err)
	}
	if _, err := svc.Upload(ctx, "u1", "empty.txt", strings.NewReader("")); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for empty file, got %v", err)
	}
	if _, err := svc.Upload(ctx, "", "resume.txt", strings.NewReader("x")); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for missing user, got %v", err)
	}
}

func TestGetHidesOtherUsersFiles(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	f, err := svc.Upload(ctx, "u1", "resume.txt", strings.NewReader("Ada"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := svc.Get(ctx, "u2", f.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if _, err := svc.Get(ctx, "u1", f.ID); err != nil {
		t.Fatalf("Get owner: %v", err)
	}
}

func TestDeleteFileRemovesBlobDerivedCopyAndRecord(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	f, err := svc.Upload(ctx, "u1", "resume.txt", strings.NewReader("Ada Lovelace"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := extract.ExtractText(ctx, svc.Store, f.StorageKey, f.MimeType, f.FileName); err != nil {
		t.Fatalf("ExtractText: %v", err)
	}

	if err := svc.DeleteFile(ctx, "u1", f.ID); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := repo.GetByID(ctx, f.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected record removed, got %v", err)
	}
	if _, err := svc.Store.Open(ctx, f.StorageKey); err == nil {
		t.Fatalf("expected blob removed")
	}
	if _, err := svc.Store.Open(ctx, f.StorageKey+extract.ExtractedSuffix); err == nil {
		t.Fatalf("expected derived copy removed")
	}

	if err := svc.DeleteFile(ctx, "u1", f.ID); err != nil {
		t.Fatalf("second DeleteFile should succeed, got %v", err)
	}
	if err := svc.DeleteFile(ctx, "u1", "never-existed"); err != nil {
		t.Fatalf("DeleteFile of unknown id should succeed, got %v", err)
	}
}

func TestDeleteFileLeavesOtherUsersFiles(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	f, err := svc.Upload(ctx, "victim", "cv.txt", strings.NewReader("Grace Hopper"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	for _, owner := range []string{"attacker", ""} {
		if err := svc.DeleteFile(ctx, owner, f.ID); err != nil {
			t.Fatalf("DeleteFile(%q): %v", owner, err)
		}
	}
	if _, err := repo.GetByID(ctx, f.ID); err != nil {
		t.Fatalf("expected record kept, got %v", err)
	}
	rc, err := svc.Store.Open(ctx, f.StorageKey)
	if err != nil {
		t.Fatalf("expected blob kept, got %v", err)
	}
	_ = rc.Close()
}

func TestOwnsFile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	f, err := svc.Upload(ctx, "u1", "resume.txt", strings.NewReader("Ada Lovelace"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	cases := []struct {
		user string
		file string
		want bool
	}{
		{user: "u1", file: f.ID, want: true},
		{user: "u2", file: f.ID, want: false},
		{user: "u1", file: "missing", want: false},
	}
	for _, tc := range cases {
		got, err := svc.OwnsFile(ctx, tc.user, tc.file)
		if err != nil {
			t.Fatalf("OwnsFile(%q, %q): %v", tc.user, tc.file, err)
		}
		if got != tc.want {
			t.Fatalf("OwnsFile(%q, %q) = %v, want %v", tc.user, tc.file, got, tc.want)
		}
	}
}
