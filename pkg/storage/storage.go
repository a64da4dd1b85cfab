package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"skill_portal_backend/internal/config"
	"skill_portal_backend/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Provider 定义通用存储接口
type Provider interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	GetURL(key string) string
}

// LocalProvider 本地存储实现
type LocalProvider struct {
	Root string
}

func NewLocalProvider(root string) *LocalProvider {
	return &LocalProvider{Root: root}
}

func (p *LocalProvider) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(p.Root, clean), nil
}

func (p *LocalProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	dst, err := p.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	dst, err := p.path(key)
	if err != nil {
		return err
	}
	return os.Remove(dst)
}

func (p *LocalProvider) GetURL(key string) string {
	return "/exports/" + key
}

// MinioProvider MinIO 存储实现
type MinioProvider struct {
	Bucket string
	Client *minio.Client
}

func NewMinioProvider(cfg *config.StorageConfig) (*MinioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioProvider{Bucket: cfg.MinioBucket, Client: client}, nil
}

// EnsureBucket 桶不存在时创建
func (p *MinioProvider) EnsureBucket(ctx context.Context) error {
	exists, err := p.Client.BucketExists(ctx, p.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return p.Client.MakeBucket(ctx, p.Bucket, minio.MakeBucketOptions{})
}

func (p *MinioProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(key), nil
}

func (p *MinioProvider) Delete(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, key, minio.RemoveObjectOptions{})
}

func (p *MinioProvider) GetURL(key string) string {
	return "/" + p.Bucket + "/" + key
}

// New 根据配置选择存储实现
func New(cfg *config.StorageConfig) (Provider, error) {
	switch cfg.Type {
	case util.StorageMinio:
		return NewMinioProvider(cfg)
	case util.StorageLocal, "":
		return NewLocalProvider(cfg.LocalPath), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// PutBytes 上传内存中的数据
func PutBytes(ctx context.Context, p Provider, key string, data []byte, contentType string) (string, error) {
	return p.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
}
