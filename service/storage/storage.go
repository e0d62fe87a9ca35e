package storage

import (
	"context"
	"io"

	"rag-console-backend/config"
)

// ObjectStore 知识文件内容的对象存储端口
type ObjectStore interface {
	Put(ctx context.Context, objectName string, body io.Reader) error
	Get(ctx context.Context, objectName string) ([]byte, error)
	Delete(ctx context.Context, objectName string) error
}

// New 按配置选择驱动：启用OSS时走云端，否则落本地目录
func New(cfg *config.OSSConfig) (ObjectStore, error) {
	if cfg.Enabled {
		return NewOSSStore(cfg), nil
	}
	return NewLocalStore(cfg.LocalDir)
}
