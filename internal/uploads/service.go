package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfextract-backend/internal/shared/metrics"
	"pdfextract-backend/internal/shared/storage/object"
	"pdfextract-backend/internal/shared/telemetry"
)

// DefaultMaxBytes caps an uploaded PDF.
const DefaultMaxBytes = 20 << 20

// pdfHeaderWindow is how far into the body the "%PDF-" marker may start;
// readers tolerate leading junk up to this offset.
const pdfHeaderWindow = 1024

var pdfMarker = []byte("%PDF-")

var allowedContentTypes = map[string]struct{}{
	"application/pdf":   {},
	"application/x-pdf": {},
}

// Owner identifies the authenticated uploader.
type Owner struct {
	ID          string
	DisplayName string
}

// Service contains business logic for uploads.
type Service struct {
	Store    object.ObjectStore
	Repo     UploadsRepo
	MaxBytes int64
	Now      func() time.Time
}

func (s *Service) maxBytes() int64 {
	if s.MaxBytes > 0 {
		return s.MaxBytes
	}
	return DefaultMaxBytes
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Accept validates a PDF and stores it. contentType is the declared part type;
// the "%PDF-" marker must also appear within the first pdfHeaderWindow bytes.
func (s *Service) Accept(ctx context.Context, owner Owner, fileName, contentType string, r io.Reader) (Upload, error) {
	if owner.ID == "" {
		return Upload{}, fmt.Errorf("%w: owner required", ErrInvalidInput)
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return Upload{}, fmt.Errorf("%w: filename required", ErrInvalidInput)
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if _, ok := allowedContentTypes[mediaType]; !ok {
		return Upload{}, fmt.Errorf("%w: only PDF files are accepted", ErrInvalidInput)
	}

	var head [pdfHeaderWindow]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}
	if !bytes.Contains(head[:n], pdfMarker) {
		return Upload{}, fmt.Errorf("%w: only PDF files are accepted", ErrInvalidInput)
	}

	limit := s.maxBytes()
	body := &limitedReader{r: io.MultiReader(bytes.NewReader(head[:n]), r), remaining: limit}

	id := uuid.NewString()
	storageKey, size, err := s.Store.Save(ctx, owner.ID, id+".pdf", body)
	if err != nil {
		if body.exceeded {
			return Upload{}, ErrTooLarge
		}
		return Upload{}, fmt.Errorf("store upload: %w", err)
	}

	u := Upload{
		ID:               id,
		OwnerID:          owner.ID,
		OwnerDisplayName: owner.DisplayName,
		Filename:         fileName,
		StoragePath:      storageKey,
		SizeBytes:        size,
		CreatedAt:        s.now(),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return Upload{}, err
	}

	metrics.IncUploadsAccepted()
	telemetry.Info("upload.accepted", map[string]any{
		"upload_id":  u.ID,
		"owner_id":   u.OwnerID,
		"size_bytes": u.SizeBytes,
	})
	return u, nil
}

// Get returns an upload if requesterID owns it.
func (s *Service) Get(ctx context.Context, id, requesterID string) (Upload, error) {
	if strings.TrimSpace(id) == "" {
		return Upload{}, ErrNotFound
	}
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Upload{}, err
	}
	if u.OwnerID != requesterID {
		return Upload{}, ErrForbidden
	}
	return u, nil
}

// limitedReader fails once more than remaining bytes are read.
type limitedReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		l.exceeded = true
		return n, ErrTooLarge
	}
	return n, err
}
