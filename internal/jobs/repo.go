package jobs

import (
	"context"
	"errors"
	"fmt"

	"pdfextract-backend/internal/shared/storage/kv"
)

// JobsRepo defines persistence operations for jobs. Put overwrites the full snapshot.
type JobsRepo interface {
	Put(ctx context.Context, j Job) error
	Get(ctx context.Context, id string) (Job, error)
}

// KVRepo stores jobs under job:<id> in a record store.
type KVRepo struct {
	store kv.Store
}

func NewKVRepo(store kv.Store) *KVRepo {
	return &KVRepo{store: store}
}

// Key returns the record key for a job id.
func Key(id string) string { return "job:" + id }

func (r *KVRepo) Put(ctx context.Context, j Job) error {
	raw, err := codec.Encode(j)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, Key(j.ID), raw); err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}

func (r *KVRepo) Get(ctx context.Context, id string) (Job, error) {
	raw, err := r.store.Get(ctx, Key(id))
	if errors.Is(err, kv.ErrNotFound) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("load job: %w", err)
	}
	return codec.Decode(raw)
}

var _ JobsRepo = (*KVRepo)(nil)
