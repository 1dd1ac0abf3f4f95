// Package worker consumes job ids from the work queue and drives each job
// through extraction to a terminal state.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"pdfextract-backend/internal/engines"
	"pdfextract-backend/internal/jobs"
	"pdfextract-backend/internal/queue"
	"pdfextract-backend/internal/shared/metrics"
	"pdfextract-backend/internal/shared/storage/object"
	"pdfextract-backend/internal/shared/telemetry"
	"pdfextract-backend/internal/uploads"
)

const (
	defaultShutdownTimeout = 30 * time.Second
	finalizeTimeout        = 10 * time.Second
	dequeueBackoff         = time.Second
	depthInterval          = 15 * time.Second
)

// Worker runs Concurrency consumers against one queue.
type Worker struct {
	Jobs            *jobs.Service
	Uploads         uploads.UploadsRepo
	Objects         object.ObjectStore
	Engines         *engines.Registry
	Queue           queue.WorkQueue
	Concurrency     int
	ShutdownTimeout time.Duration
}

// Run blocks until ctx is cancelled. In-flight jobs then get ShutdownTimeout
// to finish before their context is cancelled too.
func (w *Worker) Run(ctx context.Context) error {
	concurrency := w.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	shutdownTimeout := w.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	jobCtx, cancelJobs := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelJobs()

	telemetry.Info("worker.started", map[string]any{"concurrency": concurrency})

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			w.consume(ctx, jobCtx, slot)
		}(i)
	}

	depthDone := make(chan struct{})
	go func() {
		defer close(depthDone)
		w.reportDepth(ctx)
	}()

	<-ctx.Done()
	telemetry.Info("worker.shutdown", map[string]any{"timeout": shutdownTimeout.String()})

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		telemetry.Warn("worker.shutdown.timeout", map[string]any{"timeout": shutdownTimeout.String()})
		cancelJobs()
		<-waitDone
	}
	<-depthDone
	return nil
}

func (w *Worker) consume(ctx, jobCtx context.Context, slot int) {
	for {
		msg, err := w.Queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, queue.ErrClosed) {
				return
			}
			telemetry.Error("worker.dequeue.failed", map[string]any{"slot": slot, "error": err})
			select {
			case <-ctx.Done():
				return
			case <-time.After(dequeueBackoff):
			}
			continue
		}
		w.Process(jobCtx, msg)
	}
}

// Process handles one dequeued id. It never panics and never returns an
// error; every outcome is recorded on the job or logged.
func (w *Worker) Process(ctx context.Context, msg queue.Message) {
	fields := map[string]any{"job_id": msg.JobID}
	if msg.RequestID != "" {
		fields["request_id"] = msg.RequestID
	}
	defer func() {
		if rec := recover(); rec != nil {
			fields["error"] = fmt.Sprint(rec)
			fields["stack"] = string(debug.Stack())
			telemetry.Error("worker.job.panic", fields)
			w.fail(ctx, msg.JobID, fmt.Sprintf("%s: %v", jobs.MsgExtraction, rec))
		}
	}()

	telemetry.Info("worker.job.received", fields)

	job, err := w.Jobs.Load(ctx, msg.JobID)
	if errors.Is(err, jobs.ErrNotFound) {
		metrics.IncJobsDropped()
		telemetry.Warn("worker.job.missing", fields)
		return
	}
	if err != nil {
		fields["error"] = err
		telemetry.Error("worker.job.load_failed", fields)
		return
	}

	if _, err := w.Jobs.MarkRunning(ctx, job.ID); err != nil {
		fields["error"] = err
		fields["status"] = string(job.Status)
		if errors.Is(err, jobs.ErrInvalidTransition) {
			telemetry.Warn("worker.job.skipped", fields)
		} else {
			telemetry.Error("worker.job.mark_running_failed", fields)
		}
		return
	}
	metrics.IncJobsStarted()

	text, failure := w.extract(ctx, job)
	if failure != "" {
		w.fail(ctx, job.ID, failure)
		return
	}

	finCtx, cancel := finalizeContext(ctx)
	defer cancel()
	if _, err := w.Jobs.MarkSucceeded(finCtx, job.ID, text); err != nil {
		fields["error"] = err
		telemetry.Error("worker.job.mark_succeeded_failed", fields)
		return
	}
	telemetry.Info("worker.job.succeeded", fields)
}

// extract returns the text or a failure message for the job.
func (w *Worker) extract(ctx context.Context, job jobs.Job) (string, string) {
	upload, err := w.Uploads.Get(ctx, job.UploadID)
	if errors.Is(err, uploads.ErrNotFound) {
		return "", jobs.MsgUploadNotFound
	}
	if err != nil {
		return "", fmt.Sprintf("load upload: %v", err)
	}

	path, release, err := w.Objects.LocalPath(ctx, upload.StoragePath)
	if errors.Is(err, object.ErrNotFound) {
		return "", fmt.Sprintf("%s: %s", jobs.MsgPathMissing, upload.StoragePath)
	}
	if err != nil {
		return "", fmt.Sprintf("fetch upload: %v", err)
	}
	defer release()

	text, err := w.Engines.Run(ctx, job.Engine, path)
	var extErr *engines.ExtractionError
	switch {
	case err == nil:
		return text, ""
	case errors.Is(err, engines.ErrUnknownEngine):
		return "", fmt.Sprintf("%s: %s", jobs.MsgUnknownEngine, job.Engine)
	case errors.As(err, &extErr):
		return "", fmt.Sprintf("%s: %s", jobs.MsgExtraction, extErr.Error())
	default:
		return "", fmt.Sprintf("%s: %v", jobs.MsgExtraction, err)
	}
}

func (w *Worker) fail(ctx context.Context, id, msg string) {
	finCtx, cancel := finalizeContext(ctx)
	defer cancel()
	fields := map[string]any{"job_id": id, "reason": msg}
	if _, err := w.Jobs.MarkFailed(finCtx, id, msg); err != nil {
		fields["error"] = err
		telemetry.Error("worker.job.mark_failed_failed", fields)
		return
	}
	telemetry.Warn("worker.job.failed", fields)
}

// finalizeContext lets the terminal write land even if ctx was just cancelled.
func finalizeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
}

func (w *Worker) reportDepth(ctx context.Context) {
	ticker := time.NewTicker(depthInterval)
	defer ticker.Stop()
	for {
		if n, err := w.Queue.Len(ctx); err == nil {
			metrics.SetQueueDepth(n)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
