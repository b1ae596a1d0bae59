package resumes

import "context"

// Repo defines persistence operations for resume file records.
type Repo interface {
	Create(ctx context.Context, f ResumeFile) error
	GetByID(ctx context.Context, id string) (ResumeFile, error)
	Delete(ctx context.Context, id string) error
}
