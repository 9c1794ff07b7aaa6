package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/furkanc/voicecloning-backend/internal/config"
	"github.com/furkanc/voicecloning-backend/internal/jobs"
	"github.com/furkanc/voicecloning-backend/internal/models"
	"github.com/furkanc/voicecloning-backend/pkg/logger"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu         sync.Mutex
	jobs       map[string]*models.Job
	failCreate bool
	failUpdate bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{jobs: make(map[string]*models.Job)}
}

func copyJob(job *models.Job) *models.Job {
	clone := *job
	clone.AudioFiles = append([]string(nil), job.AudioFiles...)
	return &clone
}

func (r *fakeRepo) CreateJob(_ context.Context, job *models.Job) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return nil, fmt.Errorf("store unavailable")
	}
	r.jobs[job.ID] = copyJob(job)
	return copyJob(job), nil
}

func (r *fakeRepo) GetJobByID(_ context.Context, jobID string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, jobs.ErrJobNotFound
	}
	return copyJob(job), nil
}

func (r *fakeRepo) ListJobs(_ context.Context) ([]*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	jobList := make([]*models.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobList = append(jobList, copyJob(job))
	}
	return jobList, nil
}

func (r *fakeRepo) UpdateJobStatus(_ context.Context, jobID string, status models.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate {
		return fmt.Errorf("store unavailable")
	}
	job, ok := r.jobs[jobID]
	if !ok {
		return jobs.ErrJobNotFound
	}
	job.Status = status
	return nil
}

func (r *fakeRepo) Health(_ context.Context) (string, error) {
	return "ACTIVE", nil
}

type fakeAWSRepo struct {
	mu       sync.Mutex
	uploaded []string
	failFor  map[string]bool
}

func newFakeAWSRepo() *fakeAWSRepo {
	return &fakeAWSRepo{failFor: make(map[string]bool)}
}

func (a *fakeAWSRepo) PresignUpload(_ context.Context, jobID, fileName string) (*models.PresignedUpload, error) {
	return &models.PresignedUpload{URL: fmt.Sprintf("https://store.local/%s/%s", jobID, fileName)}, nil
}

func (a *fakeAWSRepo) UploadViaPresignedURL(_ context.Context, url string, _ io.Reader, _ int64, _ string) error {
	parts := strings.Split(url, "/")
	fileName := parts[len(parts)-1]
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failFor[fileName] {
		return fmt.Errorf("upload rejected with status 500")
	}
	a.uploaded = append(a.uploaded, url)
	return nil
}

func (a *fakeAWSRepo) UploadFile(_ context.Context, _, _, _ string) error { return nil }

func (a *fakeAWSRepo) DownloadPrefix(_ context.Context, _, _, _ string) error { return nil }

type fakeDispatcher struct {
	mu          sync.Mutex
	submissions []string
	fail        bool
}

func (d *fakeDispatcher) Submit(_ context.Context, jobID string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail {
		return "", fmt.Errorf("queue unreachable")
	}
	d.submissions = append(d.submissions, jobID)
	return fmt.Sprintf("voiceclone-job-%s", jobID), nil
}

func (d *fakeDispatcher) Dequeue(_ context.Context) (*models.DispatchMessage, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Retry: config.RetryConfig{
			MaxAttempts:       2,
			InitialIntervalMS: 1,
			CallTimeoutSec:    5,
		},
		Logger: config.Logger{Level: "error", Encoding: "console"},
	}
}

func testLogger(cfg *config.Config) logger.Logger {
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	return appLogger
}

func newTestUC(repo *fakeRepo, awsRepo *fakeAWSRepo, dispatcher *fakeDispatcher) jobs.UseCase {
	cfg := testConfig()
	return NewJobsUseCase(cfg, repo, awsRepo, dispatcher, testLogger(cfg))
}

func createInput(files ...string) *models.CreateJobInput {
	input := &models.CreateJobInput{
		Title:   "Demo",
		Text:    "Hello world",
		Quality: "fast",
	}
	for _, name := range files {
		input.Files = append(input.Files, &models.AudioUpload{
			FileName: name,
			Size:     4,
			MimeType: "audio/wav",
			Content:  strings.NewReader("data"),
		})
	}
	return input
}

func TestCreateJob_ReadAfterWrite(t *testing.T) {
	repo := newFakeRepo()
	awsRepo := newFakeAWSRepo()
	dispatcher := &fakeDispatcher{}
	uc := newTestUC(repo, awsRepo, dispatcher)

	result, err := uc.CreateJob(context.Background(), createInput("a.wav", "b.wav"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, result.StoreStatusCode)
	require.Equal(t, http.StatusOK, result.DispatchStatusCode)
	require.Empty(t, result.FailedUploads)
	require.NotEmpty(t, result.Job.ID)
	require.Equal(t, []string{"a.wav", "b.wav"}, result.Job.AudioFiles)
	require.Equal(t, models.JobStatusDispatched, result.Job.Status)
	require.Len(t, awsRepo.uploaded, 2)
	require.Equal(t, []string{result.Job.ID}, dispatcher.submissions)

	got, err := uc.GetJob(context.Background(), result.Job.ID)
	require.NoError(t, err)
	require.Equal(t, result.Job.Title, got.Title)
	require.Equal(t, result.Job.Text, got.Text)
	require.Equal(t, result.Job.Quality, got.Quality)
	require.Equal(t, result.Job.CreatedAt, got.CreatedAt)
	require.Equal(t, result.Job.AudioFiles, got.AudioFiles)
}

func TestCreateJob_UniqueIDs(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUC(repo, newFakeAWSRepo(), &fakeDispatcher{})

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		result, err := uc.CreateJob(context.Background(), createInput("a.wav"))
		require.NoError(t, err)
		require.False(t, seen[result.Job.ID], "duplicate job id %s", result.Job.ID)
		seen[result.Job.ID] = true
	}
}

func TestCreateJob_NoFiles(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := &fakeDispatcher{}
	uc := newTestUC(repo, newFakeAWSRepo(), dispatcher)

	_, err := uc.CreateJob(context.Background(), createInput())
	require.ErrorIs(t, err, jobs.ErrNoAudioFiles)
	require.Empty(t, repo.jobs)
	require.Empty(t, dispatcher.submissions)
}

func TestCreateJob_MissingText(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUC(repo, newFakeAWSRepo(), &fakeDispatcher{})

	input := createInput("a.wav")
	input.Text = ""
	_, err := uc.CreateJob(context.Background(), input)
	require.Error(t, err)
	require.Empty(t, repo.jobs)
}

func TestCreateJob_PartialUploadFailure(t *testing.T) {
	repo := newFakeRepo()
	awsRepo := newFakeAWSRepo()
	awsRepo.failFor["b.wav"] = true
	dispatcher := &fakeDispatcher{}
	uc := newTestUC(repo, awsRepo, dispatcher)

	result, err := uc.CreateJob(context.Background(), createInput("a.wav", "b.wav", "c.wav"))
	require.NoError(t, err)
	require.Equal(t, []string{"b.wav"}, result.FailedUploads)
	require.Len(t, awsRepo.uploaded, 2)
	// the record is still written and dispatched, with the failure reported
	require.Len(t, repo.jobs, 1)
	require.Equal(t, []string{result.Job.ID}, dispatcher.submissions)
	require.Equal(t, []string{"a.wav", "b.wav", "c.wav"}, result.Job.AudioFiles)
}

func TestCreateJob_StoreFailureAbortsDispatch(t *testing.T) {
	repo := newFakeRepo()
	repo.failCreate = true
	dispatcher := &fakeDispatcher{}
	uc := newTestUC(repo, newFakeAWSRepo(), dispatcher)

	_, err := uc.CreateJob(context.Background(), createInput("a.wav"))
	require.Error(t, err)
	require.Empty(t, dispatcher.submissions)
}

func TestCreateJob_DispatchFailureMarksJobFailed(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := &fakeDispatcher{fail: true}
	uc := newTestUC(repo, newFakeAWSRepo(), dispatcher)

	result, err := uc.CreateJob(context.Background(), createInput("a.wav"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, result.StoreStatusCode)
	require.Equal(t, http.StatusInternalServerError, result.DispatchStatusCode)
	require.Equal(t, models.JobStatusFailed, result.Job.Status)

	stored, err := uc.GetJob(context.Background(), result.Job.ID)
	require.NoError(t, err)
	require.Equal(t, models.JobStatusFailed, stored.Status)
}

func TestCreateJob_StatusUpdateFailureStillReportsDispatched(t *testing.T) {
	repo := newFakeRepo()
	repo.failUpdate = true
	dispatcher := &fakeDispatcher{}
	uc := newTestUC(repo, newFakeAWSRepo(), dispatcher)

	result, err := uc.CreateJob(context.Background(), createInput("a.wav"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, result.DispatchStatusCode)
	require.Equal(t, []string{result.Job.ID}, dispatcher.submissions)
	// the queue already has the job, so the response reflects that even
	// though the stored record could not be updated
	require.Equal(t, models.JobStatusDispatched, result.Job.Status)

	stored, err := uc.GetJob(context.Background(), result.Job.ID)
	require.NoError(t, err)
	require.Equal(t, models.JobStatusPending, stored.Status)
}

func TestGetJob_NotFound(t *testing.T) {
	uc := newTestUC(newFakeRepo(), newFakeAWSRepo(), &fakeDispatcher{})

	_, err := uc.GetJob(context.Background(), "unknown-id")
	require.ErrorIs(t, err, jobs.ErrJobNotFound)
}

func TestListJobs_IdempotentReads(t *testing.T) {
	uc := newTestUC(newFakeRepo(), newFakeAWSRepo(), &fakeDispatcher{})

	for i := 0; i < 3; i++ {
		_, err := uc.CreateJob(context.Background(), createInput("a.wav"))
		require.NoError(t, err)
	}
	first, err := uc.ListJobs(context.Background())
	require.NoError(t, err)
	second, err := uc.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.ElementsMatch(t, first, second)
}

func TestCreateJob_Concurrent(t *testing.T) {
	uc := newTestUC(newFakeRepo(), newFakeAWSRepo(), &fakeDispatcher{})

	type outcome struct {
		result *models.CreateJobResult
		err    error
	}
	results := make(chan outcome, 2)
	files := [][]string{{"first.wav"}, {"second.wav"}}
	for _, names := range files {
		names := names
		go func() {
			result, err := uc.CreateJob(context.Background(), createInput(names...))
			results <- outcome{result, err}
		}()
	}

	byID := make(map[string][]string)
	for i := 0; i < 2; i++ {
		out := <-results
		require.NoError(t, out.err)
		byID[out.result.Job.ID] = out.result.Job.AudioFiles
	}
	require.Len(t, byID, 2)
	for id, audioFiles := range byID {
		stored, err := uc.GetJob(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, audioFiles, stored.AudioFiles)
	}
}
