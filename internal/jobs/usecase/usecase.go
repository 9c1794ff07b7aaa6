package usecase

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/furkanc/voicecloning-backend/internal/config"
	"github.com/furkanc/voicecloning-backend/internal/jobs"
	"github.com/furkanc/voicecloning-backend/internal/models"
	"github.com/furkanc/voicecloning-backend/pkg/logger"
	"github.com/furkanc/voicecloning-backend/pkg/utils"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const maxParallelUploads = 4

type jobsUC struct {
	cfg        *config.Config
	jobsRepo   jobs.Repository
	awsRepo    jobs.AWSRepository
	dispatcher jobs.Dispatcher
	logger     logger.Logger
}

func NewJobsUseCase(
	cfg *config.Config,
	jobsRepo jobs.Repository,
	awsRepo jobs.AWSRepository,
	dispatcher jobs.Dispatcher,
	log logger.Logger,
) jobs.UseCase {
	return &jobsUC{
		cfg:        cfg,
		jobsRepo:   jobsRepo,
		awsRepo:    awsRepo,
		dispatcher: dispatcher,
		logger:     log,
	}
}

// CreateJob sequences a creation request: mint identity, upload every input
// file, persist the record, submit the compute dispatch. Uploads run to
// completion (success or reported failure) before the record is written. A
// record-store failure aborts the request before any dispatch. A dispatch
// failure leaves the record in place marked failed rather than rolling back.
func (u *jobsUC) CreateJob(ctx context.Context, input *models.CreateJobInput) (*models.CreateJobResult, error) {
	if len(input.Files) == 0 {
		return nil, jobs.ErrNoAudioFiles
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	fileNames := make([]string, 0, len(input.Files))
	for _, file := range input.Files {
		fileNames = append(fileNames, file.FileName)
	}
	job := &models.Job{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Text:        input.Text,
		Quality:     input.Quality,
		Status:      models.JobStatusPending,
		CreatedAt:   time.Now().Format(models.CreatedAtLayout),
		AudioFiles:  fileNames,
	}

	failedUploads := u.uploadInputs(ctx, job.ID, input.Files)

	created, err := u.createWithRetry(ctx, job)
	if err != nil {
		u.logger.Errorf("CreateJob - failed to persist job %s: %v", job.ID, err)
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}
	result := &models.CreateJobResult{
		StoreStatusCode: http.StatusOK,
		FailedUploads:   failedUploads,
		Job:             created,
	}

	dispatchID, err := u.submitWithRetry(ctx, job.ID)
	if err != nil {
		u.logger.Errorf("CreateJob - failed to dispatch job %s: %v", job.ID, err)
		if err := u.jobsRepo.UpdateJobStatus(ctx, job.ID, models.JobStatusFailed); err != nil {
			u.logger.Errorf("CreateJob - failed to mark job %s failed: %v", job.ID, err)
		}
		created.Status = models.JobStatusFailed
		result.DispatchStatusCode = http.StatusInternalServerError
		return result, nil
	}
	// The dispatch already succeeded, so the response reports dispatched
	// even if persisting the status fails.
	created.Status = models.JobStatusDispatched
	if err := u.jobsRepo.UpdateJobStatus(ctx, job.ID, models.JobStatusDispatched); err != nil {
		u.logger.Errorf("CreateJob - failed to mark job %s dispatched: %v", job.ID, err)
	}
	result.DispatchStatusCode = http.StatusOK
	u.logger.Infof("job %s dispatched as %s", job.ID, dispatchID)
	return result, nil
}

// uploadInputs pushes every input file through the object store gateway.
// Files are independent, so uploads run in a bounded group with no ordering
// constraint. Failures do not abort the remaining files; the affected
// filenames are returned so the caller can report them.
func (u *jobsUC) uploadInputs(ctx context.Context, jobID string, files []*models.AudioUpload) []string {
	failed := make([]string, 0)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := u.uploadOne(gctx, jobID, file); err != nil {
				u.logger.Errorf("CreateJob - upload %s for job %s: %v", file.FileName, jobID, err)
				mu.Lock()
				failed = append(failed, file.FileName)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	sort.Strings(failed)
	return failed
}

func (u *jobsUC) uploadOne(ctx context.Context, jobID string, file *models.AudioUpload) error {
	cctx, cancel := context.WithTimeout(ctx, u.callTimeout())
	defer cancel()
	presigned, err := u.awsRepo.PresignUpload(cctx, jobID, file.FileName)
	if err != nil {
		return fmt.Errorf("failed to issue upload credential: %w", err)
	}
	uctx, ucancel := context.WithTimeout(ctx, u.callTimeout())
	defer ucancel()
	if err := u.awsRepo.UploadViaPresignedURL(uctx, presigned.URL, file.Content, file.Size, file.MimeType); err != nil {
		return fmt.Errorf("failed to upload: %w", err)
	}
	return nil
}

func (u *jobsUC) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	if jobID == "" {
		return nil, jobs.ErrJobNotFound
	}
	job, err := u.jobsRepo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (u *jobsUC) ListJobs(ctx context.Context) ([]*models.Job, error) {
	jobList, err := u.jobsRepo.ListJobs(ctx)
	if err != nil {
		u.logger.Errorf("ListJobs - failed to list jobs: %v", err)
		return nil, fmt.Errorf("failed to list jobs: %v", err)
	}
	return jobList, nil
}

func (u *jobsUC) Health(ctx context.Context) (string, error) {
	return u.jobsRepo.Health(ctx)
}

func (u *jobsUC) createWithRetry(ctx context.Context, job *models.Job) (*models.Job, error) {
	var created *models.Job
	op := func() error {
		cctx, cancel := context.WithTimeout(ctx, u.callTimeout())
		defer cancel()
		var err error
		created, err = u.jobsRepo.CreateJob(cctx, job)
		return err
	}
	if err := backoff.Retry(op, u.retryPolicy(ctx)); err != nil {
		return nil, err
	}
	return created, nil
}

func (u *jobsUC) submitWithRetry(ctx context.Context, jobID string) (string, error) {
	var dispatchID string
	op := func() error {
		cctx, cancel := context.WithTimeout(ctx, u.callTimeout())
		defer cancel()
		var err error
		dispatchID, err = u.dispatcher.Submit(cctx, jobID)
		return err
	}
	if err := backoff.Retry(op, u.retryPolicy(ctx)); err != nil {
		return "", err
	}
	return dispatchID, nil
}

func (u *jobsUC) retryPolicy(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	if u.cfg.Retry.InitialIntervalMS > 0 {
		b.InitialInterval = time.Duration(u.cfg.Retry.InitialIntervalMS) * time.Millisecond
	}
	retries := uint64(0)
	if u.cfg.Retry.MaxAttempts > 1 {
		retries = uint64(u.cfg.Retry.MaxAttempts - 1)
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

func (u *jobsUC) callTimeout() time.Duration {
	if u.cfg.Retry.CallTimeoutSec > 0 {
		return time.Duration(u.cfg.Retry.CallTimeoutSec) * time.Second
	}
	return 15 * time.Second
}
