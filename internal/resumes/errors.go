package resumes

import "errors"

var (
	ErrNotFound   = errors.New("resume file not found")
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
	// ErrModelOutput is returned when the LLM reply is not usable portfolio JSON.
	ErrModelOutput = errors.New("invalid model output")
)
