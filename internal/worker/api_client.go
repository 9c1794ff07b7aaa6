package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/furkanc/voicecloning-backend/internal/jobs"
	"github.com/furkanc/voicecloning-backend/internal/models"
)

// JobFetcher is the worker-side read API used to resolve a dispatched job id
// back into its text and quality before running the model.
type JobFetcher interface {
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
}

type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) JobFetcher {
	return &apiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *apiClient) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	url := fmt.Sprintf("%s/jobs/%s", c.baseURL, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job %s: %w", jobID, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil, jobs.ErrJobNotFound
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching job %s", res.StatusCode, jobID)
	}
	job := &models.Job{}
	if err := json.NewDecoder(res.Body).Decode(job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", jobID, err)
	}
	return job, nil
}
