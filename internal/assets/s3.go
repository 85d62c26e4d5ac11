package assets

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3 stores assets in an S3-compatible bucket via the MinIO client.
type S3 struct {
	client    *minio.Client
	bucket    string
	urlPrefix string
}

// NewS3 connects to an S3-compatible endpoint and ensures the bucket exists.
func NewS3(ctx context.Context, endpoint, bucket, accessKey, secretKey string, useSSL bool) (*S3, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return &S3{
		client:    client,
		bucket:    bucket,
		urlPrefix: fmt.Sprintf("%s://%s/%s/", scheme, endpoint, bucket),
	}, nil
}

func (s *S3) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}
	return s.urlPrefix + key, nil
}

func (s *S3) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.urlPrefix)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotManaged, url)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}
