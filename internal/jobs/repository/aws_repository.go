package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/furkanc/voicecloning-backend/internal/config"
	"github.com/furkanc/voicecloning-backend/internal/jobs"
	"github.com/furkanc/voicecloning-backend/internal/models"
	"github.com/furkanc/voicecloning-backend/pkg/logger"
)

const defaultPresignExpiry = 60 * time.Minute

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
	httpClient    *http.Client
	cfg           *config.Config
	logger        logger.Logger
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient, cfg *config.Config, log logger.Logger) jobs.AWSRepository {
	uploadTimeout := time.Duration(cfg.S3.UploadTimeoutSec) * time.Second
	if uploadTimeout <= 0 {
		uploadTimeout = 30 * time.Second
	}
	return &awsRepository{
		client:        awsClient,
		preSignClient: preSignClient,
		httpClient:    &http.Client{Timeout: uploadTimeout},
		cfg:           cfg,
		logger:        log,
	}
}

func (a *awsRepository) presignExpiry() time.Duration {
	if a.cfg.S3.PresignExpiryMin > 0 {
		return time.Duration(a.cfg.S3.PresignExpiryMin) * time.Minute
	}
	return defaultPresignExpiry
}

// PresignUpload issues a time-boxed PUT credential for the input-bucket key
// "{jobID}/{fileName}".
func (a *awsRepository) PresignUpload(ctx context.Context, jobID, fileName string) (*models.PresignedUpload, error) {
	key := fmt.Sprintf("%s/%s", jobID, fileName)
	expiry := a.presignExpiry()
	putObjectReq, err := a.preSignClient.PresignPutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket: &a.cfg.S3.InputBucket,
			Key:    &key,
		},
		s3.WithPresignExpires(expiry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to presign put object for %s: %w", key, err)
	}
	return &models.PresignedUpload{
		URL:       putObjectReq.URL,
		ExpiresIn: expiry,
	}, nil
}

// UploadViaPresignedURL transfers one object through an issued credential. A
// non-2xx remote status is reported as an error value, never a panic.
func (a *awsRepository) UploadViaPresignedURL(ctx context.Context, url string, body io.Reader, size int64, mimeType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.ContentLength = size
	if mimeType != "" {
		req.Header.Set("Content-Type", mimeType)
	}
	res, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload via presigned url: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("upload rejected with status %d", res.StatusCode)
	}
	return nil
}

func (a *awsRepository) UploadFile(ctx context.Context, localPath, key, bucket string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()
	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", localPath, err)
	}
	size := stat.Size()
	if _, err = a.client.PutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &bucket,
			Key:           &key,
			ContentLength: &size,
			Body:          file,
		},
	); err != nil {
		return fmt.Errorf("failed to upload file %s: %w", localPath, err)
	}
	return nil
}

// DownloadPrefix mirrors every object under prefix into localDir, creating
// directories as needed. An empty prefix listing is a warning, not an error.
func (a *awsRepository) DownloadPrefix(ctx context.Context, bucket, prefix, localDir string) error {
	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: &bucket,
		Prefix: &prefix,
	})
	found := false
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects under %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			key := *obj.Key
			if strings.HasSuffix(key, "/") {
				continue
			}
			found = true
			if err := a.downloadObject(ctx, bucket, key, prefix, localDir); err != nil {
				return err
			}
		}
	}
	if !found {
		a.logger.Warnf("no objects found under prefix %s in bucket %s", prefix, bucket)
	}
	return nil
}

func (a *awsRepository) downloadObject(ctx context.Context, bucket, key, prefix, localDir string) error {
	rel := strings.TrimPrefix(strings.TrimPrefix(key, prefix), "/")
	localPath := filepath.Join(localDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(localPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create local dir for %s: %w", localPath, err)
	}
	res, err := a.client.GetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer res.Body.Close()
	outFile, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer outFile.Close()
	if _, err = io.Copy(outFile, res.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}
	a.logger.Infof("downloaded %s to %s", key, localPath)
	return nil
}
