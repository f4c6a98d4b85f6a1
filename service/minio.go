package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/hugofmello/startup-pitch/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioService is the blob store gateway. Uploaded documents are stored under
// a per-startup key and handed to the extraction service as a presigned URL.
type MinioService struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
}

func NewMinioService(cfg *config.MinioConfig) (*MinioService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *MinioService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload stores the document bytes under objectName.
func (s *MinioService) Upload(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	return nil
}

// PresignedURL generates a presigned URL for the object. The URL must stay
// valid long enough for the extraction service to fetch the document.
func (s *MinioService) PresignedURL(ctx context.Context, objectName string) (string, error) {
	expiry := time.Duration(s.config.ExpireDays) * 24 * time.Hour
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}
