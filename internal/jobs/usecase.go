package jobs

import (
	"context"

	"github.com/furkanc/voicecloning-backend/internal/models"
)

type UseCase interface {
	CreateJob(ctx context.Context, input *models.CreateJobInput) (*models.CreateJobResult, error)
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	ListJobs(ctx context.Context) ([]*models.Job, error)
	Health(ctx context.Context) (string, error)
}
