package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pothole-tracker/internal/domain/entity"
	"pothole-tracker/internal/domain/port"
)

// S3Config параметры подключения к S3-совместимому хранилищу
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Secure    bool
	Prefix    string
}

// Validate проверяет обязательные поля
func (c S3Config) Validate() error {
	if c.Endpoint == "" {
		return &entity.ConfigurationError{Field: "s3_endpoint", Reason: "is required"}
	}
	if c.Bucket == "" {
		return &entity.ConfigurationError{Field: "s3_bucket", Reason: "is required"}
	}
	return nil
}

// S3ImageStore выгружает размеченные снимки в бакет
type S3ImageStore struct {
	client      *minio.Client
	cfg         S3Config
	keepHistory bool
}

// NewS3ImageStore подключается к хранилищу и создаёт бакет, если его ещё нет
func NewS3ImageStore(ctx context.Context, cfg S3Config, keepHistory bool) (*S3ImageStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &S3ImageStore{client: client, cfg: cfg, keepHistory: keepHistory}, nil
}

// Save выгружает JPEG и возвращает адрес вида s3://bucket/key
func (s *S3ImageStore) Save(ctx context.Context, data []byte, at time.Time) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("upload image: %w", entity.ErrInvalidImage)
	}

	key := objectKey(s.cfg.Prefix, at, s.keepHistory)
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return fmt.Sprintf("s3://%s/%s", s.cfg.Bucket, key), nil
}

// objectKey раскладывает снимки с историей по дням
func objectKey(prefix string, at time.Time, keepHistory bool) string {
	name := imageName(at, keepHistory)
	if keepHistory {
		name = path.Join(at.Format("2006/01/02"), name)
	}
	if prefix != "" {
		name = path.Join(prefix, name)
	}
	return name
}

var _ port.ImageStore = (*S3ImageStore)(nil)
