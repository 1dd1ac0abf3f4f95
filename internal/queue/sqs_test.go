package queue

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSQS is an in-memory stand-in that long-polls like SQS.
type fakeSQS struct {
	mu      sync.Mutex
	bodies  []string
	deleted []string
	sent    []*sqs.SendMessageInput
	seq     int
}

func newFakeSQS() *fakeSQS { return &fakeSQS{} }

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, aws.ToString(in.MessageBody))
	f.sent = append(f.sent, in)
	return &sqs.SendMessageOutput{}, nil
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	for {
		f.mu.Lock()
		if len(f.bodies) > 0 {
			body := f.bodies[0]
			f.bodies = f.bodies[1:]
			f.seq++
			handle := "rh-" + strconv.Itoa(f.seq)
			f.mu.Unlock()
			return &sqs.ReceiveMessageOutput{Messages: []sqstypes.Message{{
				Body:          aws.String(body),
				ReceiptHandle: aws.String(handle),
			}}}, nil
		}
		f.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func (f *fakeSQS) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) GetQueueAttributes(_ context.Context, _ *sqs.GetQueueAttributesInput, _ ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &sqs.GetQueueAttributesOutput{Attributes: map[string]string{
		string(sqstypes.QueueAttributeNameApproximateNumberOfMessages): strconv.Itoa(len(f.bodies)),
	}}, nil
}

func TestSQSQueueDeletesOnReceipt(t *testing.T) {
	fake := newFakeSQS()
	q := newSQSQueue(fake, "https://sqs.local/000/jobs")

	require.NoError(t, q.Enqueue(context.Background(), NewMessage("job-7", "req-7")))
	msg, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "job-7", msg.JobID)
	assert.Equal(t, MessageVersion, msg.Version)
	assert.Equal(t, []string{"rh-1"}, fake.deleted)
}

func TestSQSQueueFIFOAttributes(t *testing.T) {
	fake := newFakeSQS()
	q := newSQSQueue(fake, "https://sqs.local/000/jobs.fifo")

	require.NoError(t, q.Enqueue(context.Background(), NewMessage("job-8", "")))
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "jobs", aws.ToString(fake.sent[0].MessageGroupId))
	assert.Equal(t, "job-8", aws.ToString(fake.sent[0].MessageDeduplicationId))
}

func TestNewSQSQueueRequiresURL(t *testing.T) {
	_, err := NewSQSQueue(context.Background(), "us-east-1", "  ")
	require.Error(t, err)
}
