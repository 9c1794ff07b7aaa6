package jobs

import (
	"context"

	"github.com/furkanc/voicecloning-backend/internal/models"
)

// Dispatcher submits asynchronous compute work, one invocation per job id.
// Every Submit call mints a fresh dispatch name so retries never collide.
type Dispatcher interface {
	Submit(ctx context.Context, jobID string) (string, error)
	Dequeue(ctx context.Context) (*models.DispatchMessage, error)
}
