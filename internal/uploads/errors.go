package uploads

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("upload not found")
	ErrForbidden    = errors.New("not your upload")
	ErrTooLarge     = errors.New("file too large")
)
