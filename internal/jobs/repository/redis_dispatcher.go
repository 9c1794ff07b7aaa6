package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/furkanc/voicecloning-backend/internal/config"
	"github.com/furkanc/voicecloning-backend/internal/jobs"
	"github.com/furkanc/voicecloning-backend/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const dequeueBlockTimeout = 5 * time.Second

type redisDispatcher struct {
	redisClient *redis.Client
	queueKey    string
}

func NewRedisDispatcher(redisClient *redis.Client, cfg *config.Config) jobs.Dispatcher {
	return &redisDispatcher{
		redisClient: redisClient,
		queueKey:    cfg.Redis.JobQueueKey,
	}
}

// Submit enqueues exactly one compute invocation for the job. The dispatch
// name is freshly minted per call so retried submissions never collide.
func (d *redisDispatcher) Submit(ctx context.Context, jobID string) (string, error) {
	dispatchID := fmt.Sprintf("voiceclone-job-%s", uuid.New().String())
	payload, err := json.Marshal(&models.DispatchMessage{
		DispatchID:  dispatchID,
		JobID:       jobID,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal dispatch message: %w", err)
	}
	if err := d.redisClient.LPush(ctx, d.queueKey, payload).Err(); err != nil {
		return "", fmt.Errorf("failed to enqueue dispatch: %w", err)
	}
	return dispatchID, nil
}

// Dequeue blocks for a bounded interval and returns nil when nothing arrived.
func (d *redisDispatcher) Dequeue(ctx context.Context) (*models.DispatchMessage, error) {
	res, err := d.redisClient.BLPop(ctx, dequeueBlockTimeout, d.queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue dispatch: %w", err)
	}
	msg := &models.DispatchMessage{}
	if err := json.Unmarshal([]byte(res[1]), msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dispatch message: %w", err)
	}
	return msg, nil
}
