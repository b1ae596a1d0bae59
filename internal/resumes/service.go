package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-backend/internal/cleanup"
	"portfolio-backend/internal/extract"
	"portfolio-backend/internal/shared/storage/object"
	"portfolio-backend/internal/shared/telemetry"
)

// MaxUploadSize caps a single resume upload.
const MaxUploadSize = 10 << 20 // 10MB

// Service stores uploaded resumes and removes them again.
type Service struct {
	Store    object.ObjectStore
	Repo     Repo
	Provider string
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Upload saves the file to object storage and records it for userID.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (ResumeFile, error) {
	fileName = strings.TrimSpace(fileName)
	if strings.TrimSpace(userID) == "" {
		return ResumeFile{}, fmt.Errorf("%w: userId is required", ErrValidation)
	}
	if fileName == "" {
		return ResumeFile{}, fmt.Errorf("%w: file is required", ErrValidation)
	}
	if !extract.SupportedFile("", fileName) {
		return ResumeFile{}, fmt.Errorf("%w: only PDF, DOCX and TXT files are supported", ErrValidation)
	}

	key, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return ResumeFile{}, fmt.Errorf("save resume: %w", err)
	}
	if size == 0 {
		_ = s.Store.Delete(ctx, key)
		return ResumeFile{}, fmt.Errorf("%w: file is empty", ErrValidation)
	}
	if !extract.SupportedFile(mimeType, fileName) {
		_ = s.Store.Delete(ctx, key)
		return ResumeFile{}, fmt.Errorf("%w: file content does not match a supported type", ErrValidation)
	}

	provider := s.Provider
	if provider == "" {
		provider = "local"
	}
	f := ResumeFile{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: provider,
		StorageKey:      key,
		CreatedAt:       s.now(),
	}
	if err := s.Repo.Create(ctx, f); err != nil {
		_ = s.Store.Delete(ctx, key)
		return ResumeFile{}, fmt.Errorf("record resume: %w", err)
	}
	return f, nil
}

// Get returns a resume file owned by userID. Files owned by someone else
// are reported as missing.
func (s *Service) Get(ctx context.Context, userID, fileID string) (ResumeFile, error) {
	f, err := s.Repo.GetByID(ctx, strings.TrimSpace(fileID))
	if err != nil {
		return ResumeFile{}, err
	}
	if f.UserID != userID {
		return ResumeFile{}, ErrNotFound
	}
	return f, nil
}

// OwnsFile reports whether fileID names a resume file uploaded by userID.
func (s *Service) OwnsFile(ctx context.Context, userID, fileID string) (bool, error) {
	if _, err := s.Get(ctx, userID, fileID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteFile removes the blob (the store drops its extracted text copy too)
// and then the record. Deleting a file that is already gone succeeds. A file
// that belongs to someone other than ownerID is left untouched.
func (s *Service) DeleteFile(ctx context.Context, ownerID, fileID string) error {
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return nil
	}
	f, err := s.Repo.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load resume file: %w", err)
	}
	if f.UserID != ownerID {
		telemetry.Warn("resume.delete_skipped", map[string]any{
			"resume_file_id": fileID,
			"owner_id":       ownerID,
			"reason":         "owner mismatch",
		})
		return nil
	}

	if err := s.Store.Delete(ctx, f.StorageKey); err != nil {
		return fmt.Errorf("delete resume blob: %w", err)
	}

	if err := s.Repo.Delete(ctx, fileID); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete resume record: %w", err)
	}
	return nil
}

var _ cleanup.ResumeFileRemover = (*Service)(nil)
