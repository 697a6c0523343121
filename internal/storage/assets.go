package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AssetStore holds company-owned binary assets, currently logos served on
// the public microsite.
type AssetStore interface {
	UploadLogo(ctx context.Context, companyID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error)
	LogoURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	DeleteLogo(ctx context.Context, objectKey string) error
	EnsureBucket(ctx context.Context) error
}

type minioAssetStore struct {
	client *minio.Client
	bucket string
}

func NewMinioAssetStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (AssetStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioAssetStore{client: client, bucket: bucket}, nil
}

func (s *minioAssetStore) UploadLogo(ctx context.Context, companyID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	objectKey := fmt.Sprintf("logos/%s", companyID.String())
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *minioAssetStore) LogoURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (s *minioAssetStore) DeleteLogo(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}

func (s *minioAssetStore) EnsureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}
