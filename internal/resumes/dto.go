package resumes

import (
	"errors"
	"strings"
	"time"
)

// FileResponse is the outward-facing representation of an uploaded resume.
type FileResponse struct {
	FileID     string    `json:"fileId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(f ResumeFile) FileResponse {
	return FileResponse{
		FileID:     f.ID,
		FileName:   f.FileName,
		MimeType:   f.MimeType,
		SizeBytes:  f.SizeBytes,
		UploadedAt: f.CreatedAt,
	}
}

type parseRequest struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

type parseResponse struct {
	Success bool   `json:"success"`
	DocID   string `json:"docId"`
}

func validationMessage(err error) string {
	if !errors.Is(err, ErrValidation) {
		return err.Error()
	}
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}
