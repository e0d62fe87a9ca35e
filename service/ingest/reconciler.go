package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rag-console-backend/dao"
	"rag-console-backend/model"
)

// Snapshot 两个集合在某次轮询时刻的完整快照
type Snapshot struct {
	Files []model.FileItem
	Sites []model.Site
}

// Reconciler 轮询协调器：启动时立即加载，此后按固定间隔整体替换快照
// 列表接口从快照读取；写操作后通过 Refresh 立刻补一次加载
type Reconciler struct {
	files    dao.FileStore
	sites    dao.SiteStore
	remote   *RemoteClient
	interval time.Duration

	mu   sync.RWMutex
	snap Snapshot

	refresh  chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewReconciler remote 非空时每次轮询前先将远端状态合并进本地存储
func NewReconciler(files dao.FileStore, sites dao.SiteStore, remote *RemoteClient, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Reconciler{
		files:    files,
		sites:    sites,
		remote:   remote,
		interval: interval,
		refresh:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	r.load(ctx)

	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.load(ctx)
			case <-r.refresh:
				r.load(ctx)
			case <-r.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop 取消轮询定时器，不等待也不打断在途任务
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	<-r.done
}

// Refresh 请求立即重载一次，已有待处理请求时直接返回
func (r *Reconciler) Refresh() {
	select {
	case r.refresh <- struct{}{}:
	default:
	}
}

func (r *Reconciler) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// load 全量替换快照，加载失败时保留上一次快照
func (r *Reconciler) load(ctx context.Context) {
	if r.remote != nil {
		r.syncRemote(ctx)
	}

	files, err := r.files.List(ctx)
	if err != nil {
		slog.Error("failed to load file records", "err", err)
		return
	}

	sites, err := r.sites.List(ctx)
	if err != nil {
		slog.Error("failed to load site records", "err", err)
		return
	}

	r.mu.Lock()
	r.snap = Snapshot{Files: files, Sites: sites}
	r.mu.Unlock()
}

// syncRemote 拉取远端记录列表，按ID将规范化后的状态合并进本地存储
// 远端响应不可解析时按空列表处理，不中断轮询
func (r *Reconciler) syncRemote(ctx context.Context) {
	remoteFiles, err := r.remote.ListFiles(ctx)
	if err != nil {
		slog.Warn("failed to list remote files", "err", err)
	} else {
		for i := range remoteFiles {
			r.mergeFile(ctx, &remoteFiles[i])
		}
	}

	remoteSites, err := r.remote.ListSites(ctx)
	if err != nil {
		slog.Warn("failed to list remote sites", "err", err)
		return
	}
	for i := range remoteSites {
		r.mergeSite(ctx, &remoteSites[i])
	}
}

func (r *Reconciler) mergeFile(ctx context.Context, remote *model.FileItem) {
	local, err := r.files.Get(ctx, remote.ID)
	if err != nil {
		return
	}

	status := model.NormalizeStatus(string(remote.Status)).Status
	if local.Status == status {
		return
	}

	local.Status = status
	local.IngestedChunks = remote.IngestedChunks
	local.ErrorMessage = remote.ErrorMessage
	if err := r.files.Update(ctx, local); err != nil {
		slog.Warn("failed to merge remote file status", "id", remote.ID, "err", err)
	}
}

func (r *Reconciler) mergeSite(ctx context.Context, remote *model.Site) {
	local, err := r.sites.Get(ctx, remote.ID)
	if err != nil {
		return
	}

	status := model.NormalizeStatus(string(remote.Status)).Status
	if local.Status == status {
		return
	}

	local.Status = status
	local.IngestedURLs = remote.IngestedURLs
	local.ErrorMessage = remote.ErrorMessage
	if err := r.sites.Update(ctx, local); err != nil {
		slog.Warn("failed to merge remote site status", "id", remote.ID, "err", err)
	}
}
