package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/furkanc/voicecloning-backend/internal/models"
	"github.com/pkg/errors"
)

// qualityPresets are the presets the model accepts. Quality is validated
// here, not by the API, since only the model layer knows what it supports.
var qualityPresets = map[string]struct{}{
	"ultra_fast":   {},
	"fast":         {},
	"standard":     {},
	"high_quality": {},
}

func validateQuality(quality string) error {
	if _, ok := qualityPresets[quality]; !ok {
		return fmt.Errorf("unsupported quality preset: %s", quality)
	}
	return nil
}

// processJob runs one dispatch end to end: fetch the job details through the
// read API, mirror the job's voice samples from the input bucket, synthesize,
// then upload "<job_id>.wav" to the output bucket.
func (w *Worker) processJob(ctx context.Context, msg *models.DispatchMessage) error {
	jobTimeout := time.Duration(w.cfg.Worker.JobTimeoutSec) * time.Second
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Minute
	}
	jctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	job, err := w.api.GetJob(jctx, msg.JobID)
	if err != nil {
		return errors.Wrap(err, "failed to fetch job details")
	}
	if err := validateQuality(job.Quality); err != nil {
		return err
	}

	tempDir, err := os.MkdirTemp("", "voicecloning_job_")
	if err != nil {
		return errors.Wrap(err, "failed to create temp dir")
	}
	defer func() {
		w.logger.Info("cleaning temporary files")
		os.RemoveAll(tempDir)
	}()

	samplesDir := filepath.Join(tempDir, "voices")
	if err := w.awsRepo.DownloadPrefix(jctx, w.cfg.S3.InputBucket, job.ID, samplesDir); err != nil {
		return errors.Wrap(err, "failed to download voice samples")
	}

	outputPath, err := w.synth.Synthesize(jctx, &SynthesisRequest{
		JobID:     job.ID,
		Text:      job.Text,
		Quality:   job.Quality,
		VoiceDir:  samplesDir,
		OutputDir: tempDir,
	})
	if err != nil {
		return errors.Wrap(err, "synthesis failed")
	}

	outputKey := fmt.Sprintf("%s.wav", job.ID)
	if err := w.awsRepo.UploadFile(jctx, outputPath, outputKey, w.cfg.S3.OutputBucket); err != nil {
		return errors.Wrap(err, "failed to upload output audio")
	}
	return nil
}
