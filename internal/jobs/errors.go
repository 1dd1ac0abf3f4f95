package jobs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("job not found")
	ErrForbidden         = errors.New("not your job")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrInvalidUpload = fmt.Errorf("%w: upload_id", ErrInvalidInput)
	ErrInvalidEngine = fmt.Errorf("%w: engine", ErrInvalidInput)
)

// Worker-visible failure messages.
const (
	MsgUploadNotFound = "upload not found"
	MsgPathMissing    = "PDF path missing"
	MsgUnknownEngine  = "unknown engine"
	MsgExtraction     = "extraction error"
)
