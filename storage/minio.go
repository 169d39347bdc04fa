package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MePlay/config"
	"MePlay/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultURLExpiry = 24 * time.Hour

// ObjectStore turns stored audio and cover paths into URIs a player can open.
// Without a MinIO endpoint it passes paths through unchanged.
type ObjectStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewObjectStore 初始化 MinIO 客户端. 未配置 endpoint 时返回直通实现.
func NewObjectStore(cfg *config.Config) (*ObjectStore, error) {
	if cfg.MinioEndpoint == "" {
		logger.Info("MinIO not configured, serving stored paths as-is")
		return &ObjectStore{}, nil
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}
	return NewObjectStoreWithClient(client, cfg.MinioBucket, cfg.MinioURLExpiry), nil
}

// NewObjectStoreWithClient wraps an existing client.
func NewObjectStoreWithClient(client *minio.Client, bucket string, expiry time.Duration) *ObjectStore {
	if expiry <= 0 {
		expiry = defaultURLExpiry
	}
	return &ObjectStore{client: client, bucket: bucket, expiry: expiry}
}

// Configured reports whether a MinIO client is behind the store.
func (s *ObjectStore) Configured() bool {
	return s != nil && s.client != nil
}

// EnsureBucket 检查存储桶是否存在, 不存在则创建
func (s *ObjectStore) EnsureBucket(ctx context.Context, region string) error {
	if !s.Configured() {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶失败: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("创建存储桶失败: %w", err)
	}
	logger.Info("created bucket", logger.String("bucket", s.bucket))
	return nil
}

// URL resolves a stored path. Absolute http(s) URLs and paths seen without a
// MinIO client are returned unchanged; anything else is treated as an object
// key and presigned.
func (s *ObjectStore) URL(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" || isAbsoluteURL(path) || !s.Configured() {
		return path, nil
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, strings.TrimPrefix(path, "/"), s.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", path, err)
	}
	return u.String(), nil
}

func isAbsoluteURL(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
