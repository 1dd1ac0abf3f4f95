package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MessageVersion is the envelope version written by this build.
const MessageVersion = 1

// Message is the envelope that carries a job id through the queue.
type Message struct {
	JobID      string `json:"jobId"`
	RequestID  string `json:"requestId"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

// NewMessage stamps an envelope for a job id.
func NewMessage(jobID, requestID string) Message {
	return Message{
		JobID:      jobID,
		RequestID:  requestID,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    MessageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a queue payload. A payload that is not a JSON object
// is taken as a bare job id, which is how ids pushed by hand look.
func DecodeMessage(payload []byte) (Message, error) {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return Message{}, fmt.Errorf("empty queue payload")
	}
	if !strings.HasPrefix(trimmed, "{") {
		return Message{JobID: trimmed}, nil
	}
	var msg Message
	if err := json.Unmarshal([]byte(trimmed), &msg); err != nil {
		return Message{}, err
	}
	if msg.JobID == "" {
		return Message{}, fmt.Errorf("queue payload has no jobId")
	}
	return msg, nil
}
