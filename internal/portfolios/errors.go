package portfolios

import "errors"

var (
	ErrNotFound   = errors.New("portfolio not found")
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
)
