package models

import (
	"io"
	"time"
)

// CreatedAtLayout is the fixed local date-time pattern stored on every job.
const CreatedAtLayout = "02-01-2006_15:04:05"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusDispatched JobStatus = "dispatched"
	JobStatusFailed     JobStatus = "failed"
)

// Job is a voice-cloning request. Apart from the status transition driven by
// the dispatch outcome, a job is immutable once created.
type Job struct {
	ID          string    `json:"id" db:"id" validate:"omitempty"`
	Title       string    `json:"title" db:"title" validate:"required,lte=255"`
	Description string    `json:"description" db:"description" validate:"omitempty"`
	Text        string    `json:"text" db:"text" validate:"required"`
	Quality     string    `json:"quality" db:"quality" validate:"required,lte=50"`
	Status      JobStatus `json:"status" db:"status" validate:"omitempty"`
	CreatedAt   string    `json:"created_at" db:"created_at" validate:"omitempty"`
	AudioFiles  []string  `json:"audio_files" validate:"omitempty"`
}

// AudioUpload is one reference voice sample attached to a creation request.
type AudioUpload struct {
	FileName string
	Size     int64
	MimeType string
	Content  io.Reader
}

type CreateJobInput struct {
	Title       string         `json:"title" validate:"required,lte=255"`
	Description string         `json:"description" validate:"omitempty"`
	Text        string         `json:"text" validate:"required"`
	Quality     string         `json:"quality" validate:"required,lte=50"`
	Files       []*AudioUpload `json:"-" validate:"required,min=1"`
}

type CreateJobResult struct {
	StoreStatusCode    int      `json:"store_status_code"`
	DispatchStatusCode int      `json:"dispatch_status_code"`
	FailedUploads      []string `json:"failed_uploads"`
	Job                *Job     `json:"job"`
}

// PresignedUpload is a time-boxed credential for one input object.
type PresignedUpload struct {
	URL       string
	ExpiresIn time.Duration
}

// DispatchMessage is the payload placed on the compute queue. The worker
// re-fetches everything else through the read API, keyed by JobID.
type DispatchMessage struct {
	DispatchID  string    `json:"dispatch_id"`
	JobID       string    `json:"job_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}
