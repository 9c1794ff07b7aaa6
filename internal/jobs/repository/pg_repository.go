package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/furkanc/voicecloning-backend/internal/jobs"
	"github.com/furkanc/voicecloning-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// stateActive is what Health reports when the store is ready to serve.
const stateActive = "ACTIVE"

type jobsRepo struct {
	db *sqlx.DB
}

func NewJobsRepo(db *sqlx.DB) jobs.Repository {
	return &jobsRepo{
		db: db,
	}
}

// jobRow is the all-text storage shape of a job. The audio file sequence is
// kept in a single text column, see encodeAudioFiles.
type jobRow struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Text        string `db:"text"`
	Quality     string `db:"quality"`
	Status      string `db:"status"`
	CreatedAt   string `db:"created_at"`
	AudioFiles  string `db:"audio_files"`
}

// encodeAudioFiles serializes the ordered filename sequence as a JSON array.
// JSON round-trips empty sequences, unicode and punctuation losslessly, which
// a delimiter-joined string would not.
func encodeAudioFiles(files []string) (string, error) {
	if files == nil {
		files = []string{}
	}
	encoded, err := json.Marshal(files)
	if err != nil {
		return "", fmt.Errorf("failed to encode audio files: %w", err)
	}
	return string(encoded), nil
}

func decodeAudioFiles(encoded string) ([]string, error) {
	if encoded == "" {
		return []string{}, nil
	}
	var files []string
	if err := json.Unmarshal([]byte(encoded), &files); err != nil {
		return nil, fmt.Errorf("failed to decode audio files: %w", err)
	}
	if files == nil {
		files = []string{}
	}
	return files, nil
}

func (r *jobRow) toModel() (*models.Job, error) {
	files, err := decodeAudioFiles(r.AudioFiles)
	if err != nil {
		return nil, err
	}
	return &models.Job{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Text:        r.Text,
		Quality:     r.Quality,
		Status:      models.JobStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		AudioFiles:  files,
	}, nil
}

func (j *jobsRepo) CreateJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	encoded, err := encodeAudioFiles(job.AudioFiles)
	if err != nil {
		return nil, err
	}
	row := &jobRow{}
	if err := j.db.QueryRowxContext(
		ctx,
		createJobQuery,
		job.ID,
		job.Title,
		job.Description,
		job.Text,
		job.Quality,
		string(job.Status),
		job.CreatedAt,
		encoded,
	).StructScan(row); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return row.toModel()
}

func (j *jobsRepo) GetJobByID(ctx context.Context, jobID string) (*models.Job, error) {
	row := &jobRow{}
	if err := j.db.QueryRowxContext(
		ctx,
		getJobByIDQuery,
		jobID,
	).StructScan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, jobs.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job by id: %w", err)
	}
	return row.toModel()
}

func (j *jobsRepo) ListJobs(ctx context.Context) ([]*models.Job, error) {
	rows, err := j.db.QueryxContext(ctx, listJobsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()
	jobList := make([]*models.Job, 0)
	for rows.Next() {
		var row jobRow
		if err = rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		job, err := row.toModel()
		if err != nil {
			return nil, err
		}
		jobList = append(jobList, job)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}
	return jobList, nil
}

func (j *jobsRepo) UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus) error {
	res, err := j.db.ExecContext(ctx, updateJobStatusQuery, string(status), jobID)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	count, _ := res.RowsAffected()
	if count == 0 {
		return jobs.ErrJobNotFound
	}
	return nil
}

func (j *jobsRepo) Health(ctx context.Context) (string, error) {
	if err := j.db.PingContext(ctx); err != nil {
		return "UNREACHABLE", fmt.Errorf("failed to ping store: %w", err)
	}
	return stateActive, nil
}
