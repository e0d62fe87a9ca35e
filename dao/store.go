package dao

import (
	"context"
	"errors"

	"rag-console-backend/config"
	"rag-console-backend/model"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateURL = errors.New("url already registered")
	ErrDuplicateKey = errors.New("duplicate key")
)

// FileStore 文件记录存储端口
// List 按创建时间倒序返回全部记录
type FileStore interface {
	List(ctx context.Context) ([]model.FileItem, error)
	Get(ctx context.Context, id int64) (*model.FileItem, error)
	Create(ctx context.Context, item *model.FileItem) error
	Update(ctx context.Context, item *model.FileItem) error
	Delete(ctx context.Context, id int64) error
}

// SiteStore 站点记录存储端口，URL重复时 Create 返回 ErrDuplicateURL
type SiteStore interface {
	List(ctx context.Context) ([]model.Site, error)
	Get(ctx context.Context, id int64) (*model.Site, error)
	GetByURL(ctx context.Context, url string) (*model.Site, error)
	Create(ctx context.Context, site *model.Site) error
	Update(ctx context.Context, site *model.Site) error
	Delete(ctx context.Context, id int64) error
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type Stores struct {
	Files FileStore
	Sites SiteStore
	Users UserStore
}

// Init 按配置选择存储驱动
func Init(cfg *config.StoreConfig) (*Stores, error) {
	switch cfg.Driver {
	case config.StoreDriverMySQL:
		return initMySQL(cfg.DSN)
	case config.StoreDriverJSONFile:
		return initJSONFile(cfg.DataDir)
	}
	return nil, errors.New("unknown store driver: " + cfg.Driver)
}
