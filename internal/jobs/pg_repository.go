package jobs

import (
	"context"

	"github.com/furkanc/voicecloning-backend/internal/models"
)

// Repository is the durable job record store. Records are keyed by job id and,
// apart from the status transition, never mutated.
type Repository interface {
	CreateJob(ctx context.Context, job *models.Job) (*models.Job, error)
	GetJobByID(ctx context.Context, jobID string) (*models.Job, error)
	ListJobs(ctx context.Context) ([]*models.Job, error)
	UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus) error
	Health(ctx context.Context) (string, error)
}
