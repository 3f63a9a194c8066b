package minio

import (
	"context"
	"fmt"
	"io"
	"time"

	"charbit-go/internal/config"
	"charbit-go/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// AvatarStore 角色头像对象存储，头像 Bucket 为公开读
type AvatarStore struct {
	client     *minio.Client
	bucket     string
	publicHost string
	useSSL     bool
}

// NewAvatarStore 初始化 MinIO 客户端并确保头像 Bucket 存在且公开可读
func NewAvatarStore(cfg *config.MinIOConfig) (*AvatarStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bucket := cfg.AvatarBucket
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		logger.Info("MinIO bucket created", zap.String("bucket", bucket))
	}

	if err := client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
		return nil, fmt.Errorf("failed to set public policy for %s: %w", bucket, err)
	}

	publicHost := cfg.PublicHost
	if publicHost == "" {
		publicHost = cfg.Endpoint
	}

	logger.Info("MinIO connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", bucket),
	)
	return &AvatarStore{client: client, bucket: bucket, publicHost: publicHost, useSSL: cfg.UseSSL}, nil
}

// UploadAvatar 上传头像，返回公开访问地址
func (s *AvatarStore) UploadAvatar(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=86400",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}
	return PublicURL(s.publicHost, s.useSSL, s.bucket, objectName), nil
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}

// PublicURL 生成公开访问 URL
func PublicURL(host string, useSSL bool, bucket, objectName string) string {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, host, bucket, objectName)
}
