package ingest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"rag-console-backend/dao"
	"rag-console-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReconcilerStores(t *testing.T) (dao.FileStore, dao.SiteStore) {
	t.Helper()
	dir := t.TempDir()
	return dao.NewJSONFileStore(filepath.Join(dir, "files.json")),
		dao.NewJSONSiteStore(filepath.Join(dir, "sites.json"))
}

func TestReconcilerLoadsImmediately(t *testing.T) {
	ctx := context.Background()
	files, sites := newReconcilerStores(t)

	require.NoError(t, files.Create(ctx, &model.FileItem{Filename: "a.pdf", Status: model.StatusPending}))

	r := NewReconciler(files, sites, nil, time.Hour)
	r.Start(ctx)
	defer r.Stop()

	// Start 返回前已完成首次加载
	snap := r.Snapshot()
	require.Len(t, snap.Files, 1)
	assert.Equal(t, "a.pdf", snap.Files[0].Filename)
	assert.Empty(t, snap.Sites)
}

func TestReconcilerRefresh(t *testing.T) {
	ctx := context.Background()
	files, sites := newReconcilerStores(t)

	r := NewReconciler(files, sites, nil, time.Hour)
	r.Start(ctx)
	defer r.Stop()

	assert.Empty(t, r.Snapshot().Files)

	require.NoError(t, files.Create(ctx, &model.FileItem{Filename: "b.md", Status: model.StatusPending}))
	r.Refresh()

	require.Eventually(t, func() bool {
		return len(r.Snapshot().Files) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReconcilerStop(t *testing.T) {
	files, sites := newReconcilerStores(t)

	r := NewReconciler(files, sites, nil, 10*time.Millisecond)
	r.Start(context.Background())

	done := make(chan struct{})
	go func() {
		r.Stop()
		// 重复Stop幂等
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reconciler did not stop")
	}
}

func TestReconcilerPollsOnInterval(t *testing.T) {
	ctx := context.Background()
	files, sites := newReconcilerStores(t)

	r := NewReconciler(files, sites, nil, 20*time.Millisecond)
	r.Start(ctx)
	defer r.Stop()

	require.NoError(t, files.Create(ctx, &model.FileItem{Filename: "c.txt", Status: model.StatusPending}))

	// 不调用Refresh，仅靠定时轮询也能追上
	require.Eventually(t, func() bool {
		return len(r.Snapshot().Files) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
