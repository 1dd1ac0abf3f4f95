package jobs

import (
	"fmt"
	"time"
)

var allowed = map[Status][]Status{
	StatusQueued:  {StatusRunning},
	StatusRunning: {StatusSucceeded, StatusFailed},
}

// CanTransition reports whether from -> to is an edge of the state machine.
func CanTransition(from, to Status) bool {
	for _, next := range allowed[from] {
		if next == to {
			return true
		}
	}
	return false
}

// applyRunning moves a queued job to running. Error is cleared.
func applyRunning(j Job, now time.Time) (Job, error) {
	if !CanTransition(j.Status, StatusRunning) {
		return j, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, StatusRunning)
	}
	j.Status = StatusRunning
	j.StartedAt = &now
	j.Error = nil
	return j, nil
}

func applySucceeded(j Job, result string, now time.Time) (Job, error) {
	if !CanTransition(j.Status, StatusSucceeded) {
		return j, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, StatusSucceeded)
	}
	j.Status = StatusSucceeded
	j.Result = &result
	j.Error = nil
	j.FinishedAt = &now
	return j, nil
}

func applyFailed(j Job, msg string, now time.Time) (Job, error) {
	if !CanTransition(j.Status, StatusFailed) {
		return j, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, StatusFailed)
	}
	j.Status = StatusFailed
	j.Result = nil
	j.Error = &msg
	j.FinishedAt = &now
	return j, nil
}
