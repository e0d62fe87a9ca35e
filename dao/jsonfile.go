package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"rag-console-backend/model"
)

// JSON文件驱动：每个集合持久化为一个JSON数组文件
// 面向单机离线场景，单写者假设，整个集合读改写，后写覆盖先写
func initJSONFile(dataDir string) (*Stores, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dataDir, err)
	}
	return &Stores{
		Files: NewJSONFileStore(filepath.Join(dataDir, "files.json")),
		Sites: NewJSONSiteStore(filepath.Join(dataDir, "sites.json")),
		Users: NewJSONUserStore(filepath.Join(dataDir, "users.json")),
	}, nil
}

// jsonCollection 单个JSON数组文件的读写封装
type jsonCollection[T any] struct {
	path string
	mu   sync.Mutex
}

// loadAll 文件缺失、损坏、不可解析时一律按"无数据"处理，不报错
func (c *jsonCollection[T]) loadAll() []T {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

// saveAll 原子替换整个集合：写临时文件后rename，读者不会观察到半写状态
func (c *jsonCollection[T]) saveAll(items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to replace collection file: %w", err)
	}
	return nil
}

// nextRecordID 以创建时刻的毫秒时间戳为ID，冲突时递增保证唯一
func nextRecordID(maxID int64) int64 {
	id := time.Now().UnixMilli()
	if id <= maxID {
		id = maxID + 1
	}
	return id
}

type JSONFileStore struct {
	col jsonCollection[model.FileItem]
}

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{col: jsonCollection[model.FileItem]{path: path}}
}

func (s *JSONFileStore) List(ctx context.Context) ([]model.FileItem, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	items := s.col.loadAll()
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (s *JSONFileStore) Get(ctx context.Context, id int64) (*model.FileItem, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	for _, item := range s.col.loadAll() {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONFileStore) Create(ctx context.Context, item *model.FileItem) error {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	items := s.col.loadAll()
	var maxID int64
	for _, existing := range items {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}

	now := time.Now()
	item.ID = nextRecordID(maxID)
	item.CreatedAt = now
	item.UpdatedAt = now

	return s.col.saveAll(append(items, *item))
}

func (s *JSONFileStore) Update(ctx context.Context, item *model.FileItem) error {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	items := s.col.loadAll()
	for i := range items {
		if items[i].ID == item.ID {
			item.UpdatedAt = time.Now()
			items[i] = *item
			return s.col.saveAll(items)
		}
	}
	return ErrNotFound
}

func (s *JSONFileStore) Delete(ctx context.Context, id int64) error {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	items := s.col.loadAll()
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return s.col.saveAll(kept)
}

type JSONSiteStore struct {
	col jsonCollection[model.Site]
}

func NewJSONSiteStore(path string) *JSONSiteStore {
	return &JSONSiteStore{col: jsonCollection[model.Site]{path: path}}
}

func (s *JSONSiteStore) List(ctx context.Context) ([]model.Site, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	sites := s.col.loadAll()
	sort.Slice(sites, func(i, j int) bool {
		return sites[i].ID > sites[j].ID
	})
	return sites, nil
}

func (s *JSONSiteStore) Get(ctx context.Context, id int64) (*model.Site, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	for _, site := range s.col.loadAll() {
		if site.ID == id {
			return &site, nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONSiteStore) GetByURL(ctx context.Context, url string) (*model.Site, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	for _, site := range s.col.loadAll() {
		if site.URL == url {
			return &site, nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONSiteStore) Create(ctx context.Context, site *model.Site) error {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	sites := s.col.loadAll()
	var maxID int64
	for _, existing := range sites {
		if existing.URL == site.URL {
			return ErrDuplicateURL
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}

	now := time.Now()
	site.ID = nextRecordID(maxID)
	site.CreatedAt = now
	site.UpdatedAt = now

	return s.col.saveAll(append(sites, *site))
}

func (s *JSONSiteStore) Update(ctx context.Context, site *model.Site) error {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	sites := s.col.loadAll()
	for i := range sites {
		if sites[i].ID == site.ID {
			site.UpdatedAt = time.Now()
			sites[i] = *site
			return s.col.saveAll(sites)
		}
	}
	return ErrNotFound
}

func (s *JSONSiteStore) Delete(ctx context.Context, id int64) error {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	sites := s.col.loadAll()
	kept := sites[:0]
	for _, site := range sites {
		if site.ID != id {
			kept = append(kept, site)
		}
	}
	return s.col.saveAll(kept)
}

type JSONUserStore struct {
	col jsonCollection[model.User]
}

func NewJSONUserStore(path string) *JSONUserStore {
	return &JSONUserStore{col: jsonCollection[model.User]{path: path}}
}

func (s *JSONUserStore) Create(ctx context.Context, user *model.User) error {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	users := s.col.loadAll()
	var maxID uint
	for _, existing := range users {
		if existing.Email == user.Email {
			return ErrDuplicateKey
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}

	now := time.Now()
	user.ID = maxID + 1
	user.CreatedAt = now
	user.UpdatedAt = now

	return s.col.saveAll(append(users, *user))
}

func (s *JSONUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	for _, user := range s.col.loadAll() {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}
