package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/studio-b12/gowebdav"
)

// WebDAVConfig WebDAV 配置结构
type WebDAVConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	RootPath string `mapstructure:"root_path"`
}

// webdavStorage WebDAV 存储实现
type webdavStorage struct {
	client   *gowebdav.Client
	rootPath string
}

// newWebDAVStorage 创建 WebDAV 存储提供者
func newWebDAVStorage(cfg WebDAVConfig) (*webdavStorage, error) {
	client := gowebdav.NewClient(cfg.URL, cfg.Username, cfg.Password)

	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to webdav server '%s': %w", cfg.URL, err)
	}

	rootPath := cfg.RootPath
	if rootPath == "" {
		rootPath = "/"
	}
	if err := client.MkdirAll(rootPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create webdav root path '%s': %w", rootPath, err)
	}

	return &webdavStorage{
		client:   client,
		rootPath: rootPath,
	}, nil
}

func (s *webdavStorage) remotePath(identifier string) string {
	return path.Join(s.rootPath, identifier)
}

// SaveWithContext 保存文件到 WebDAV
func (s *webdavStorage) SaveWithContext(ctx context.Context, identifier string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file content: %w", err)
	}

	if err := s.client.Write(s.remotePath(identifier), data, 0644); err != nil {
		return fmt.Errorf("failed to write '%s' to webdav: %w", identifier, err)
	}
	return nil
}

// GetWithContext 从 WebDAV 获取文件
func (s *webdavStorage) GetWithContext(ctx context.Context, identifier string) (io.ReadSeeker, error) {
	data, err := s.client.Read(s.remotePath(identifier))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found in webdav: %s", identifier)
		}
		return nil, fmt.Errorf("failed to read '%s' from webdav: %w", identifier, err)
	}
	return bytes.NewReader(data), nil
}

// DeleteWithContext 从 WebDAV 删除文件
func (s *webdavStorage) DeleteWithContext(ctx context.Context, identifier string) error {
	if err := s.client.Remove(s.remotePath(identifier)); err != nil {
		return fmt.Errorf("failed to delete '%s' from webdav: %w", identifier, err)
	}
	return nil
}

// Exists 检查文件是否存在
func (s *webdavStorage) Exists(ctx context.Context, identifier string) (bool, error) {
	_, err := s.client.Stat(s.remotePath(identifier))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Health 检查存储健康状态
func (s *webdavStorage) Health(ctx context.Context) error {
	_, err := s.client.ReadDir(s.rootPath)
	return err
}

// Name 返回存储名称
func (s *webdavStorage) Name() string {
	return "webdav"
}
