package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker
//
// Subscribed to the SQS queue that WORK_QUEUE=sqs enqueues to. Each record
// body is one queue message.

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"pdfextract-backend/internal/bootstrap"
	"pdfextract-backend/internal/queue"
	"pdfextract-backend/internal/shared/config"
	"pdfextract-backend/internal/shared/telemetry"
)

// processor handles one decoded message. *worker.Worker satisfies it.
type processor interface {
	Process(ctx context.Context, msg queue.Message)
}

var (
	initOnce sync.Once
	initErr  error
	proc     processor
)

func initApp() {
	cfg := config.Load()
	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		initErr = err
		return
	}
	proc = app.NewWorker()
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr})
		return retryAll(event), initErr
	}
	return handleEvent(ctx, proc, event), nil
}

// handleEvent processes records in order. Undecodable bodies are logged and
// dropped; job failures are recorded on the job, so nothing is redelivered.
func handleEvent(ctx context.Context, p processor, event events.SQSEvent) events.SQSEventResponse {
	for _, record := range event.Records {
		msg, err := queue.DecodeMessage([]byte(record.Body))
		if err != nil {
			telemetry.Warn("lambda.message.invalid", map[string]any{
				"message_id": record.MessageId,
				"body_len":   len(record.Body),
				"error":      err,
			})
			continue
		}
		p.Process(ctx, msg)
	}
	return events.SQSEventResponse{BatchItemFailures: []events.SQSBatchItemFailure{}}
}

func retryAll(event events.SQSEvent) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
	for _, record := range event.Records {
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func main() {
	lambda.Start(handler)
}
