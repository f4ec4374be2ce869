package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/shareplaces/backend/config"
)

// ErrNotFound 对象不存在
var ErrNotFound = errors.New("object not found")

// Provider 对象存储提供者接口。
// Save 返回成功即视为持久化完成；Delete 对不存在的 key 返回 ErrNotFound，
// 清理路径的调用方将其视为非致命。
type Provider interface {
	SaveWithContext(ctx context.Context, key string, file io.Reader) error
	GetWithContext(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteWithContext(ctx context.Context, key string) error
	ListKeys(ctx context.Context) ([]string, error)
	Name() string
}

// NewProvider 根据配置创建存储提供者
func NewProvider(cfg *config.Config) (Provider, error) {
	storageType := cfg.StorageType

	log.Printf("Initializing storage, type: %s", storageType)

	switch storageType {
	case "local", "":
		return NewLocalStorage(cfg.StorageLocalPath)
	case "minio":
		return NewMinioStorage(MinioConfig{
			Endpoint:        cfg.MinioEndpoint,
			AccessKeyID:     cfg.MinioAccessKeyID,
			SecretAccessKey: cfg.MinioSecretAccessKey,
			BucketName:      cfg.MinioBucketName,
			UseSSL:          cfg.MinioUseSSL,
		})
	case "webdav":
		return NewWebDAVStorage(WebDAVConfig{
			URL:      cfg.WebDAVEndpoint,
			Username: cfg.WebDAVUsername,
			Password: cfg.WebDAVPassword,
			RootPath: cfg.WebDAVBasePath,
		})
	default:
		return nil, fmt.Errorf("invalid storage type specified in config: %s", storageType)
	}
}

// IsValidKey 校验 blob key 是否合法，key 为扁平的 "uuid.ext" 形式
func IsValidKey(key string) bool {
	if key == "" {
		return false
	}

	if filepath.IsAbs(key) || strings.Contains(key, "..") || strings.Contains(key, "/") {
		return false
	}

	for _, r := range key {
		if (r < 'a' || r > 'z') &&
			(r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') &&
			r != '-' && r != '_' && r != '.' {
			return false
		}
	}

	return true
}
