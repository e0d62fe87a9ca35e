package dao

import (
	"context"
	"errors"
	"fmt"

	"rag-console-backend/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DB 全局数据库连接，仅在 mysql 驱动下初始化
var DB *gorm.DB

func initMySQL(dsn string) (*Stores, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	if err := db.AutoMigrate(&model.FileItem{}, &model.Site{}, &model.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	DB = db
	return &Stores{
		Files: &MySQLFileStore{db: db},
		Sites: &MySQLSiteStore{db: db},
		Users: &MySQLUserStore{db: db},
	}, nil
}

type MySQLFileStore struct {
	db *gorm.DB
}

func (s *MySQLFileStore) List(ctx context.Context) ([]model.FileItem, error) {
	var items []model.FileItem
	if err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MySQLFileStore) Get(ctx context.Context, id int64) (*model.FileItem, error) {
	var item model.FileItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *MySQLFileStore) Create(ctx context.Context, item *model.FileItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *MySQLFileStore) Update(ctx context.Context, item *model.FileItem) error {
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *MySQLFileStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&model.FileItem{}, id).Error
}

type MySQLSiteStore struct {
	db *gorm.DB
}

func (s *MySQLSiteStore) List(ctx context.Context) ([]model.Site, error) {
	var sites []model.Site
	if err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

func (s *MySQLSiteStore) Get(ctx context.Context, id int64) (*model.Site, error) {
	var site model.Site
	if err := s.db.WithContext(ctx).First(&site, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &site, nil
}

func (s *MySQLSiteStore) GetByURL(ctx context.Context, url string) (*model.Site, error) {
	var site model.Site
	if err := s.db.WithContext(ctx).Where("url = ?", url).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &site, nil
}

func (s *MySQLSiteStore) Create(ctx context.Context, site *model.Site) error {
	if _, err := s.GetByURL(ctx, site.URL); err == nil {
		return ErrDuplicateURL
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := s.db.WithContext(ctx).Create(site).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateURL
		}
		return err
	}
	return nil
}

func (s *MySQLSiteStore) Update(ctx context.Context, site *model.Site) error {
	return s.db.WithContext(ctx).Save(site).Error
}

func (s *MySQLSiteStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&model.Site{}, id).Error
}

type MySQLUserStore struct {
	db *gorm.DB
}

func (s *MySQLUserStore) Create(ctx context.Context, user *model.User) error {
	if _, err := s.GetByEmail(ctx, user.Email); err == nil {
		return ErrDuplicateKey
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *MySQLUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
