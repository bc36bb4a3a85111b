package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"learngenix_backend/internal/config"
	"learngenix_backend/internal/util"
	"learngenix_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var errInvalidObjectKey = errors.New("invalid object key")

// StorageProvider 按对象 key 存取文件，返回可公开访问的 URL
type StorageProvider interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

// localProvider 写入 LocalPath，由路由以 /uploads 提供
type localProvider struct {
	root string
}

func (p *localProvider) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean != key {
		return "", errInvalidObjectKey
	}
	return filepath.Join(p.root, filepath.FromSlash(clean)), nil
}

func (p *localProvider) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	dst, err := p.resolve(key)
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
	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return p.URL(key), nil
}

func (p *localProvider) Remove(ctx context.Context, key string) error {
	dst, err := p.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (p *localProvider) URL(key string) string {
	return "/uploads/" + key
}

// minioProvider 对象存放在单个 bucket 中，URL 直接指向 MinIO
type minioProvider struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func newMinioProvider(cfg *config.StorageConfig) (*minioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
	}

	scheme := "http"
	if cfg.MinioUseSSL {
		scheme = "https"
	}
	return &minioProvider{
		client:  client,
		bucket:  cfg.MinioBucket,
		baseURL: fmt.Sprintf("%s://%s/%s/", scheme, strings.TrimRight(cfg.MinioEndpoint, "/"), cfg.MinioBucket),
	}, nil
}

func (p *minioProvider) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.client.PutObject(ctx, p.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.URL(key), nil
}

func (p *minioProvider) Remove(ctx context.Context, key string) error {
	return p.client.RemoveObject(ctx, p.bucket, key, minio.RemoveObjectOptions{})
}

func (p *minioProvider) URL(key string) string {
	return p.baseURL + key
}

// StorageService 头像等用户文件的存储
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	if cfg.Storage.Type == util.StorageMinio {
		p, err := newMinioProvider(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("MinIO unavailable, falling back to local storage", zap.Error(err))
		} else {
			provider = p
		}
	}

	if provider == nil {
		provider = &localProvider{root: cfg.Storage.LocalPath}
	}

	return &StorageService{Provider: provider}
}

// AvatarKey avatars/<user>/<随机名><扩展名>
func AvatarKey(userID, mimeType string) string {
	return fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), util.ExtensionFor(mimeType))
}

// SaveAvatar 保存新头像并返回其 URL
func (s *StorageService) SaveAvatar(ctx context.Context, userID string, reader io.Reader, size int64, mimeType string) (string, error) {
	return s.Provider.Put(ctx, AvatarKey(userID, mimeType), reader, size, mimeType)
}

// KeyForURL 仅识别本存储生成的、属于该用户的头像 URL
func (s *StorageService) KeyForURL(userID, url string) (string, bool) {
	base := s.Provider.URL("")
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	if !strings.HasPrefix(key, "avatars/"+userID+"/") {
		return "", false
	}
	return key, true
}

// RemoveAvatar 删除旧头像；非本存储的 URL 忽略
func (s *StorageService) RemoveAvatar(ctx context.Context, userID, url string) error {
	key, ok := s.KeyForURL(userID, url)
	if !ok {
		return nil
	}
	return s.Provider.Remove(ctx, key)
}
