package uploads

import (
	"context"
	"errors"
	"fmt"

	"pdfextract-backend/internal/shared/storage/kv"
)

// UploadsRepo defines persistence operations for uploads.
type UploadsRepo interface {
	Create(ctx context.Context, u Upload) error
	Get(ctx context.Context, id string) (Upload, error)
}

// KVRepo stores uploads under upload:<id> in a record store.
type KVRepo struct {
	store kv.Store
}

func NewKVRepo(store kv.Store) *KVRepo {
	return &KVRepo{store: store}
}

// Key returns the record key for an upload id.
func Key(id string) string { return "upload:" + id }

func (r *KVRepo) Create(ctx context.Context, u Upload) error {
	raw, err := codec.Encode(u)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, Key(u.ID), raw); err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	return nil
}

func (r *KVRepo) Get(ctx context.Context, id string) (Upload, error) {
	raw, err := r.store.Get(ctx, Key(id))
	if errors.Is(err, kv.ErrNotFound) {
		return Upload{}, ErrNotFound
	}
	if err != nil {
		return Upload{}, fmt.Errorf("load upload: %w", err)
	}
	return codec.Decode(raw)
}

var _ UploadsRepo = (*KVRepo)(nil)
