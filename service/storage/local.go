package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore 本地目录对象存储，离线环境下替代OSS
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create object dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// 对象名可能带路径分隔符，统一转义为安全文件名
func (s *LocalStore) path(objectName string) string {
	name := strings.ReplaceAll(objectName, "/", "__")
	return filepath.Join(s.dir, name)
}

func (s *LocalStore) Put(ctx context.Context, objectName string, body io.Reader) error {
	f, err := os.Create(s.path(objectName))
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("failed to write object file: %w", err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, objectName string) ([]byte, error) {
	data, err := os.ReadFile(s.path(objectName))
	if err != nil {
		return nil, fmt.Errorf("failed to read object file: %w", err)
	}
	return data, nil
}

func (s *LocalStore) Delete(ctx context.Context, objectName string) error {
	if err := os.Remove(s.path(objectName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object file: %w", err)
	}
	return nil
}
