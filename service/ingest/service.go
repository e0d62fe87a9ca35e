package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"rag-console-backend/dao"
	"rag-console-backend/model"

	"github.com/google/uuid"
)

// ChunkPurger 按来源清理向量库中的旧chunk，重摄取与删除前调用
type ChunkPurger interface {
	DeleteBySource(ctx context.Context, source string) error
}

// ObjectWriter 文件内容的读写删，见 service/storage
type ObjectWriter interface {
	Put(ctx context.Context, objectName string, body io.Reader) error
	Get(ctx context.Context, objectName string) ([]byte, error)
	Delete(ctx context.Context, objectName string) error
}

// Service 摄取编排：负责记录的全部状态流转
// 约束：记录先持久化为 processing 再交给执行器，终态由本服务写回
type Service struct {
	files   dao.FileStore
	sites   dao.SiteStore
	runner  Runner
	objects ObjectWriter
	purger  ChunkPurger
	recon   *Reconciler

	// 站点爬取异步派发，未接入MQ时回退为进程内goroutine
	dispatch func(siteID int64)
}

func NewService(files dao.FileStore, sites dao.SiteStore, runner Runner, objects ObjectWriter) *Service {
	s := &Service{
		files:   files,
		sites:   sites,
		runner:  runner,
		objects: objects,
	}
	s.dispatch = func(siteID int64) {
		go func() {
			if err := s.ExecuteCrawl(context.Background(), siteID); err != nil {
				slog.Error("crawl job failed", "site_id", siteID, "err", err)
			}
		}()
	}
	return s
}

func (s *Service) SetPurger(p ChunkPurger) {
	s.purger = p
}

func (s *Service) SetReconciler(r *Reconciler) {
	s.recon = r
}

// SetDispatcher 替换站点爬取的派发方式（MQ接入点）
func (s *Service) SetDispatcher(dispatch func(siteID int64)) {
	s.dispatch = dispatch
}

func (s *Service) notifyChanged() {
	if s.recon != nil {
		s.recon.Refresh()
	}
}

// ListFiles 优先读取轮询快照
func (s *Service) ListFiles(ctx context.Context) ([]model.FileItem, error) {
	if s.recon != nil {
		return s.recon.Snapshot().Files, nil
	}
	return s.files.List(ctx)
}

func (s *Service) ListSites(ctx context.Context) ([]model.Site, error) {
	if s.recon != nil {
		return s.recon.Snapshot().Sites, nil
	}
	return s.sites.List(ctx)
}

// CreateFile 保存文件内容并创建 pending 记录
func (s *Service) CreateFile(ctx context.Context, filename string, body io.Reader) (*model.FileItem, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	objectName := uuid.New().String() + ext

	if err := s.objects.Put(ctx, objectName, body); err != nil {
		return nil, fmt.Errorf("failed to store file content: %w", err)
	}

	item := &model.FileItem{
		Filename:   filename,
		ObjectName: objectName,
		Status:     model.StatusPending,
	}
	if err := s.files.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	s.notifyChanged()
	return item, nil
}

// IngestFile 同步执行文件摄取：pending/终态 → processing → done/error
// 重摄取前清理该文件的旧chunk
func (s *Service) IngestFile(ctx context.Context, id int64) (int, error) {
	item, err := s.files.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	item.MarkProcessing()
	if err := s.files.Update(ctx, item); err != nil {
		return 0, fmt.Errorf("failed to mark file processing: %w", err)
	}
	s.notifyChanged()

	if s.purger != nil {
		if err := s.purger.DeleteBySource(ctx, item.ObjectName); err != nil {
			slog.Warn("failed to purge previous chunks", "object_name", item.ObjectName, "err", err)
		}
	}

	chunks, runErr := s.runner.RunFile(ctx, item)
	if runErr != nil {
		item.MarkError(runErr.Error())
		if err := s.files.Update(ctx, item); err != nil {
			slog.Error("failed to persist error state", "id", id, "err", err)
		}
		s.notifyChanged()
		return 0, runErr
	}

	item.MarkDone(chunks)
	if err := s.files.Update(ctx, item); err != nil {
		return 0, fmt.Errorf("failed to persist done state: %w", err)
	}

	s.notifyChanged()
	slog.Info("file ingested", "id", id, "filename", item.Filename, "chunks", chunks)
	return chunks, nil
}

// DeleteFile 删除记录、对象内容与其向量chunk
func (s *Service) DeleteFile(ctx context.Context, id int64) error {
	item, err := s.files.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.files.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	if err := s.objects.Delete(ctx, item.ObjectName); err != nil {
		slog.Warn("failed to delete object content", "object_name", item.ObjectName, "err", err)
	}

	if s.purger != nil {
		if err := s.purger.DeleteBySource(ctx, item.ObjectName); err != nil {
			slog.Warn("failed to purge chunks", "object_name", item.ObjectName, "err", err)
		}
	}

	s.notifyChanged()
	return nil
}

// CreateSite 创建站点记录，URL规范化后按去重规则拒绝重复提交
func (s *Service) CreateSite(ctx context.Context, rawURL, scope, siteType string, autoIngest bool) (*model.Site, error) {
	normalized := NormalizeURL(rawURL)
	if err := ValidateURL(normalized); err != nil {
		return nil, err
	}

	if siteType == "" {
		siteType = model.DefaultSiteType
	}

	site := &model.Site{
		URL:      normalized,
		Scope:    normalizeScope(scope),
		SiteType: siteType,
		Status:   model.StatusPending,
	}
	if err := s.sites.Create(ctx, site); err != nil {
		return nil, err
	}
	s.notifyChanged()

	if autoIngest {
		if err := s.StartCrawl(ctx, site.ID); err != nil {
			slog.Error("failed to start crawl after create", "site_id", site.ID, "err", err)
		}
	}
	return site, nil
}

// StartCrawl 站点爬取为异步任务：先持久化 processing 再派发执行
func (s *Service) StartCrawl(ctx context.Context, id int64) error {
	site, err := s.sites.Get(ctx, id)
	if err != nil {
		return err
	}

	site.MarkProcessing()
	if err := s.sites.Update(ctx, site); err != nil {
		return fmt.Errorf("failed to mark site processing: %w", err)
	}
	s.notifyChanged()

	s.dispatch(id)
	return nil
}

// ExecuteCrawl 执行爬取任务并写回终态，由MQ消费者或进程内goroutine调用
func (s *Service) ExecuteCrawl(ctx context.Context, id int64) error {
	site, err := s.sites.Get(ctx, id)
	if err != nil {
		return err
	}

	if site.Status != model.StatusProcessing {
		site.MarkProcessing()
		if err := s.sites.Update(ctx, site); err != nil {
			return fmt.Errorf("failed to mark site processing: %w", err)
		}
		s.notifyChanged()
	}

	pages, runErr := s.runner.RunSite(ctx, site)
	if runErr != nil {
		site.MarkError(runErr.Error())
		if err := s.sites.Update(ctx, site); err != nil {
			slog.Error("failed to persist error state", "site_id", id, "err", err)
		}
		s.notifyChanged()
		return runErr
	}

	site.MarkDone(pages)
	if err := s.sites.Update(ctx, site); err != nil {
		return fmt.Errorf("failed to persist done state: %w", err)
	}

	s.notifyChanged()
	slog.Info("site crawled", "site_id", id, "url", site.URL, "pages", pages)
	return nil
}

// DeleteSite 删除站点记录及其向量chunk
func (s *Service) DeleteSite(ctx context.Context, id int64) error {
	site, err := s.sites.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.sites.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete site record: %w", err)
	}

	if s.purger != nil {
		if err := s.purger.DeleteBySource(ctx, site.URL); err != nil {
			slog.Warn("failed to purge chunks", "url", site.URL, "err", err)
		}
	}

	s.notifyChanged()
	return nil
}
