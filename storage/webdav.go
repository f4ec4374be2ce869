package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/studio-b12/gowebdav"
)

// WebDAVConfig WebDAV 配置结构
type WebDAVConfig struct {
	URL      string
	Username string
	Password string
	RootPath string
}

// WebDAVStorage WebDAV 存储实现
type WebDAVStorage struct {
	client   *gowebdav.Client
	rootPath string
}

// NewWebDAVStorage 创建 WebDAV 存储提供者
func NewWebDAVStorage(cfg WebDAVConfig) (*WebDAVStorage, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webdav URL is required")
	}

	rootPath := strings.Trim(cfg.RootPath, "/")
	if rootPath != "" {
		rootPath = "/" + rootPath
	}

	client := gowebdav.NewClient(cfg.URL, cfg.Username, cfg.Password)

	// 验证连接并确保根目录存在
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := &WebDAVStorage{client: client, rootPath: rootPath}
	if err := s.do(ctx, func() error {
		if rootPath == "" {
			_, err := client.ReadDir("/")
			return err
		}
		if err := client.Mkdir(rootPath, os.FileMode(0755)); err != nil && !isCollectionExistsError(err) {
			return err
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("webdav connection test failed: %w", err)
	}

	return s, nil
}

// do 在独立 goroutine 中执行 WebDAV 调用以支持 ctx 取消
func (s *WebDAVStorage) do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// fullPath 生成完整的 WebDAV 路径
func (s *WebDAVStorage) fullPath(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.rootPath != "" {
		return s.rootPath + "/" + key
	}
	return "/" + key
}

// isCollectionExistsError 判断是否为目录已存在的错误
func isCollectionExistsError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	for _, s := range []string{"already exists", "conflict", "Conflict", "409", "Method Not Allowed", "405"} {
		if strings.Contains(errStr, s) {
			return true
		}
	}
	return false
}

func isWebDAVNotFound(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "404") || strings.Contains(errStr, "Not Found")
}

// SaveWithContext 保存文件到 WebDAV
func (s *WebDAVStorage) SaveWithContext(ctx context.Context, key string, file io.Reader) error {
	if !IsValidKey(key) {
		return fmt.Errorf("invalid storage key: %s", key)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file content: %w", err)
	}

	fullPath := s.fullPath(key)
	err = s.do(ctx, func() error {
		return s.client.Write(fullPath, data, os.FileMode(0644))
	})
	if err != nil {
		return fmt.Errorf("failed to write '%s' to webdav: %w", key, err)
	}

	return nil
}

// GetWithContext 从 WebDAV 获取文件
func (s *WebDAVStorage) GetWithContext(ctx context.Context, key string) (io.ReadCloser, error) {
	if !IsValidKey(key) {
		return nil, fmt.Errorf("invalid storage key: %s", key)
	}

	fullPath := s.fullPath(key)

	var data []byte
	err := s.do(ctx, func() error {
		var readErr error
		data, readErr = s.client.Read(fullPath)
		return readErr
	})
	if err != nil {
		if isWebDAVNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read '%s' from webdav: %w", key, err)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// DeleteWithContext 从 WebDAV 删除文件
func (s *WebDAVStorage) DeleteWithContext(ctx context.Context, key string) error {
	if !IsValidKey(key) {
		return fmt.Errorf("invalid storage key: %s", key)
	}

	fullPath := s.fullPath(key)

	err := s.do(ctx, func() error {
		if _, statErr := s.client.Stat(fullPath); statErr != nil {
			return statErr
		}
		return s.client.Remove(fullPath)
	})
	if err != nil {
		if isWebDAVNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete '%s' from webdav: %w", key, err)
	}

	return nil
}

// ListKeys 列出根目录下的所有 key
func (s *WebDAVStorage) ListKeys(ctx context.Context) ([]string, error) {
	root := s.rootPath
	if root == "" {
		root = "/"
	}

	var keys []string
	err := s.do(ctx, func() error {
		entries, readErr := s.client.ReadDir(root)
		if readErr != nil {
			return readErr
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			keys = append(keys, entry.Name())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list webdav directory '%s': %w", root, err)
	}

	return keys, nil
}

// Name 返回存储名称
func (s *WebDAVStorage) Name() string {
	return "webdav"
}
