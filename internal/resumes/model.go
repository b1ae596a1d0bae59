package resumes

import "time"

// ResumeFile maps an opaque file id to an uploaded blob in the object store.
type ResumeFile struct {
	ID              string
	UserID          string
	FileName        string
	MimeType        string
	SizeBytes       int64
	StorageProvider string
	StorageKey      string
	CreatedAt       time.Time
}
