package jobs

import "time"

// Status is a job lifecycle state.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Job is one extraction request against an upload.
type Job struct {
	ID               string     `json:"id"`
	UploadID         string     `json:"upload_id"`
	Engine           string     `json:"engine"`
	Status           Status     `json:"status"`
	Result           *string    `json:"result"`
	Error            *string    `json:"error"`
	CreatedAt        time.Time  `json:"created_at"`
	StartedAt        *time.Time `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at"`
	OwnerID          string     `json:"owner_id"`
	OwnerDisplayName string     `json:"owner_display_name"`
}

// View is what GET /jobs/{id} returns.
type View struct {
	JobID      string     `json:"job_id"`
	UploadID   string     `json:"upload_id"`
	Engine     string     `json:"engine"`
	Status     Status     `json:"status"`
	Result     *string    `json:"result"`
	Error      *string    `json:"error"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

// CreatedResponse is returned by POST /jobs.
type CreatedResponse struct {
	JobID  string `json:"job_id"`
	Status Status `json:"status"`
}

// ToView strips owner fields.
func ToView(j Job) View {
	return View{
		JobID:      j.ID,
		UploadID:   j.UploadID,
		Engine:     j.Engine,
		Status:     j.Status,
		Result:     j.Result,
		Error:      j.Error,
		CreatedAt:  j.CreatedAt,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
	}
}
