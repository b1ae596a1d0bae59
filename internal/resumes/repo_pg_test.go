package resumes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	f := ResumeFile{
		ID:         "f1",
		UserID:     "u1",
		FileName:   "resume.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  42,
		StorageKey: "abc/123_resume.pdf",
		CreatedAt:  now,
	}

	mock.ExpectExec("INSERT INTO resume_files").
		WithArgs("f1", "u1", "resume.pdf", "application/pdf", int64(42), "local", "abc/123_resume.pdf", now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.Create(context.Background(), f); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows := sqlmock.NewRows([]string{"id", "user_id", "file_name", "mime_type", "size_bytes", "storage_provider", "storage_key", "created_at"}).
		AddRow("f1", "u1", "resume.pdf", "application/pdf", int64(42), "local", "abc/123_resume.pdf", now)
	mock.ExpectQuery("SELECT id, user_id, file_name").WithArgs("f1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "f1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.StorageKey != "abc/123_resume.pdf" || got.StorageProvider != "local" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMissingRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, user_id, file_name").WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mock.ExpectExec("DELETE FROM resume_files").WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
