package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no object exists under a storage key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// LocalPath returns a filesystem path holding the object. release must be
	// called once the caller is done with the path.
	LocalPath(ctx context.Context, storageKey string) (path string, release func(), err error)
}
