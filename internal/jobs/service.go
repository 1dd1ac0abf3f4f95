package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfextract-backend/internal/queue"
	"pdfextract-backend/internal/shared/metrics"
	"pdfextract-backend/internal/shared/telemetry"
	"pdfextract-backend/internal/uploads"
)

// EngineSet answers whether an engine id is accepted.
type EngineSet interface {
	Has(id string) bool
}

// Requester identifies the authenticated caller.
type Requester struct {
	ID          string
	DisplayName string
}

// Service owns the job lifecycle: creation, ownership-checked reads and the
// transitions reported by workers.
type Service struct {
	Repo    JobsRepo
	Uploads uploads.UploadsRepo
	Queue   queue.WorkQueue
	Engines EngineSet
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create validates the request, persists a queued job and enqueues its id.
// If the enqueue fails the persisted job is returned with the error.
func (s *Service) Create(ctx context.Context, uploadID, engine string, req Requester, requestID string) (Job, error) {
	uploadID = strings.TrimSpace(uploadID)
	if uploadID == "" {
		return Job{}, ErrInvalidUpload
	}
	if !s.Engines.Has(engine) {
		return Job{}, fmt.Errorf("%w %q", ErrInvalidEngine, engine)
	}

	upload, err := s.Uploads.Get(ctx, uploadID)
	if errors.Is(err, uploads.ErrNotFound) {
		return Job{}, ErrInvalidUpload
	}
	if err != nil {
		return Job{}, err
	}
	if upload.OwnerID != req.ID {
		return Job{}, fmt.Errorf("%w: upload %s", ErrForbidden, uploadID)
	}

	job := Job{
		ID:               uuid.NewString(),
		UploadID:         uploadID,
		Engine:           engine,
		Status:           StatusQueued,
		CreatedAt:        s.now(),
		OwnerID:          req.ID,
		OwnerDisplayName: req.DisplayName,
	}
	if err := s.Repo.Put(ctx, job); err != nil {
		return Job{}, err
	}
	if err := s.Queue.Enqueue(ctx, queue.NewMessage(job.ID, requestID)); err != nil {
		// The record stays queued; Requeue pushes it again once the queue is back.
		telemetry.Error("job.enqueue_failed", map[string]any{
			"job_id":     job.ID,
			"request_id": requestID,
			"error":      err,
		})
		return job, fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}

	metrics.IncJobsCreated(engine)
	logTransition(job, "", requestID)
	return job, nil
}

// Requeue pushes the id of a job that is still queued, for jobs whose first
// enqueue failed. Any other status is ErrInvalidTransition.
func (s *Service) Requeue(ctx context.Context, id, requestID string) error {
	job, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.Status != StatusQueued {
		return fmt.Errorf("%w: %s job cannot be requeued", ErrInvalidTransition, job.Status)
	}
	if err := s.Queue.Enqueue(ctx, queue.NewMessage(job.ID, requestID)); err != nil {
		return fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}
	telemetry.Info("job.requeued", map[string]any{"job_id": job.ID})
	return nil
}

// Get returns a job if requesterID owns it.
func (s *Service) Get(ctx context.Context, id, requesterID string) (Job, error) {
	if strings.TrimSpace(id) == "" {
		return Job{}, ErrNotFound
	}
	job, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Job{}, err
	}
	if job.OwnerID != requesterID {
		return Job{}, ErrForbidden
	}
	return job, nil
}

// Load returns a job without an ownership check. Worker only.
func (s *Service) Load(ctx context.Context, id string) (Job, error) {
	return s.Repo.Get(ctx, id)
}

// MarkRunning moves a queued job to running.
func (s *Service) MarkRunning(ctx context.Context, id string) (Job, error) {
	return s.update(ctx, id, func(j Job, now time.Time) (Job, error) {
		return applyRunning(j, now)
	})
}

// MarkSucceeded records the extracted text.
func (s *Service) MarkSucceeded(ctx context.Context, id, result string) (Job, error) {
	job, err := s.update(ctx, id, func(j Job, now time.Time) (Job, error) {
		return applySucceeded(j, result, now)
	})
	if err == nil {
		metrics.IncJobsSucceeded()
		observeDuration(job)
	}
	return job, err
}

// MarkFailed records a failure message.
func (s *Service) MarkFailed(ctx context.Context, id, msg string) (Job, error) {
	job, err := s.update(ctx, id, func(j Job, now time.Time) (Job, error) {
		return applyFailed(j, msg, now)
	})
	if err == nil {
		metrics.IncJobsFailed()
		observeDuration(job)
	}
	return job, err
}

func (s *Service) update(ctx context.Context, id string, apply func(Job, time.Time) (Job, error)) (Job, error) {
	current, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Job{}, err
	}
	next, err := apply(current, s.now())
	if err != nil {
		return current, err
	}
	if err := s.Repo.Put(ctx, next); err != nil {
		return current, err
	}
	logTransition(next, current.Status, "")
	return next, nil
}

func observeDuration(j Job) {
	if j.StartedAt == nil || j.FinishedAt == nil {
		return
	}
	metrics.ObserveJobDuration(j.Engine, string(j.Status), j.FinishedAt.Sub(*j.StartedAt))
}

func logTransition(j Job, from Status, requestID string) {
	fields := map[string]any{
		"job_id":    j.ID,
		"upload_id": j.UploadID,
		"engine":    j.Engine,
		"status":    string(j.Status),
	}
	if from != "" {
		fields["status_transition"] = string(from) + "->" + string(j.Status)
	}
	if requestID != "" {
		fields["request_id"] = requestID
	}
	if j.Error != nil {
		fields["error"] = *j.Error
	}
	telemetry.Info("job.status", fields)
}
