package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage is the object store consumed by the photo pipeline: upload bytes
// under a key, get back a publicly resolvable URL, delete by that URL later.
type Storage interface {
	Upload(ctx context.Context, key string, object io.Reader, size int64, contentType string) (string, error)
	DeleteByURL(ctx context.Context, objectURL string) error
}

const defaultContentType = "application/octet-stream"

type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
	UseSSL          bool
}

// NewMinioStorage connects to the S3-compatible endpoint and makes sure the
// bucket exists.
func NewMinioStorage(ctx context.Context, cfg Config) (*MinioStorage, error) {
	const op = "objectstore.NewMinioStorage"

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &MinioStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *MinioStorage) Upload(ctx context.Context, key string, object io.Reader, size int64, contentType string) (string, error) {
	const op = "objectstore.Upload"

	if contentType == "" {
		contentType = defaultContentType
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, object, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}

func (s *MinioStorage) DeleteByURL(ctx context.Context, objectURL string) error {
	const op = "objectstore.DeleteByURL"

	key, err := s.keyFromURL(objectURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *MinioStorage) keyFromURL(objectURL string) (string, error) {
	u, err := url.Parse(objectURL)
	if err != nil {
		return "", err
	}

	key := strings.TrimPrefix(strings.TrimPrefix(u.Path, "/"), s.bucket+"/")
	if key == "" {
		return "", fmt.Errorf("no object key in %q", objectURL)
	}

	return key, nil
}
