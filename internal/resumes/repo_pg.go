package resumes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new resume file record.
func (r *PGRepo) Create(ctx context.Context, f ResumeFile) error {
	const query = `
INSERT INTO resume_files (
    id,
    user_id,
    file_name,
    mime_type,
    size_bytes,
    storage_provider,
    storage_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	provider := f.StorageProvider
	if provider == "" {
		provider = "local"
	}
	_, err := r.DB.ExecContext(ctx, query,
		f.ID,
		f.UserID,
		f.FileName,
		f.MimeType,
		f.SizeBytes,
		provider,
		f.StorageKey,
		f.CreatedAt,
	)
	return err
}

// GetByID returns a resume file record by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (ResumeFile, error) {
	const query = `
SELECT id, user_id, file_name, mime_type, size_bytes, storage_provider, storage_key, created_at
FROM resume_files
WHERE id = $1`
	var f ResumeFile
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&f.ID,
		&f.UserID,
		&f.FileName,
		&f.MimeType,
		&f.SizeBytes,
		&f.StorageProvider,
		&f.StorageKey,
		&f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ResumeFile{}, ErrNotFound
		}
		return ResumeFile{}, err
	}
	return f, nil
}

// Delete removes a resume file record.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resume_files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
