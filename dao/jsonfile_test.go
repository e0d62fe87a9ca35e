package dao

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rag-console-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFileStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewJSONFileStore(filepath.Join(t.TempDir(), "files.json"))

	first := &model.FileItem{Filename: "a.pdf", ObjectName: "obj-a.pdf", Status: model.StatusPending}
	require.NoError(t, store.Create(ctx, first))
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second := &model.FileItem{Filename: "b.md", ObjectName: "obj-b.md", Status: model.StatusPending}
	require.NoError(t, store.Create(ctx, second))
	assert.Greater(t, second.ID, first.ID)

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// 新记录在前
	assert.Equal(t, "b.md", items[0].Filename)
	assert.Equal(t, "a.pdf", items[1].Filename)

	first.MarkDone(7)
	require.NoError(t, store.Update(ctx, first))

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, got.Status)
	assert.Equal(t, 7, *got.IngestedChunks)

	require.NoError(t, store.Delete(ctx, first.ID))
	_, err = store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJSONFileStoreMissingAndCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "files.json")
	store := NewJSONFileStore(path)

	// 文件不存在时按空集合处理
	items, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// 损坏的文件同样按空集合处理，不报错
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	items, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// 写入会重建文件
	require.NoError(t, store.Create(ctx, &model.FileItem{Filename: "a.pdf"}))
	items, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestJSONSiteStoreDuplicateURL(t *testing.T) {
	ctx := context.Background()
	store := NewJSONSiteStore(filepath.Join(t.TempDir(), "sites.json"))

	site := &model.Site{URL: "https://example.com", Scope: model.SiteScopeAll, SiteType: model.DefaultSiteType}
	require.NoError(t, store.Create(ctx, site))

	dup := &model.Site{URL: "https://example.com", Scope: model.SiteScopeAll, SiteType: model.DefaultSiteType}
	assert.ErrorIs(t, store.Create(ctx, dup), ErrDuplicateURL)

	got, err := store.GetByURL(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, site.ID, got.ID)
}

func TestJSONUserStore(t *testing.T) {
	ctx := context.Background()
	store := NewJSONUserStore(filepath.Join(t.TempDir(), "users.json"))

	user := &model.User{Email: "admin@example.com", PasswordHash: "hash"}
	require.NoError(t, store.Create(ctx, user))

	assert.ErrorIs(t, store.Create(ctx, &model.User{Email: "admin@example.com"}), ErrDuplicateKey)

	got, err := store.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = store.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
