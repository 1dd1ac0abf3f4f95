package main

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"

	"pdfextract-backend/internal/queue"
)

type recordingProcessor struct {
	ids []string
}

func (r *recordingProcessor) Process(_ context.Context, msg queue.Message) {
	r.ids = append(r.ids, msg.JobID)
}

func TestHandleEventProcessesValidRecords(t *testing.T) {
	body, err := queue.EncodeMessage(queue.NewMessage("job-1", "req-1"))
	assert.NoError(t, err)

	p := &recordingProcessor{}
	resp := handleEvent(context.Background(), p, events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "m1", Body: string(body)},
		{MessageId: "m2", Body: "job-2"},
		{MessageId: "m3", Body: ""},
	}})

	assert.Equal(t, []string{"job-1", "job-2"}, p.ids)
	assert.Empty(t, resp.BatchItemFailures)
}

func TestRetryAllReportsEveryRecord(t *testing.T) {
	resp := retryAll(events.SQSEvent{Records: []events.SQSMessage{{MessageId: "a"}, {MessageId: "b"}}})
	assert.Equal(t, []events.SQSBatchItemFailure{{ItemIdentifier: "a"}, {ItemIdentifier: "b"}}, resp.BatchItemFailures)
}
