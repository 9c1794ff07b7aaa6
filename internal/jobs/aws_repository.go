package jobs

import (
	"context"
	"io"

	"github.com/furkanc/voicecloning-backend/internal/models"
)

// AWSRepository is the object store gateway for the input/output buckets.
type AWSRepository interface {
	PresignUpload(ctx context.Context, jobID, fileName string) (*models.PresignedUpload, error)
	UploadViaPresignedURL(ctx context.Context, url string, body io.Reader, size int64, mimeType string) error
	UploadFile(ctx context.Context, localPath, key, bucket string) error
	DownloadPrefix(ctx context.Context, bucket, prefix, localDir string) error
}
