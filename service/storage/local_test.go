package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "a.pdf", bytes.NewReader([]byte("content"))))

	data, err := store.Get(ctx, "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)

	require.NoError(t, store.Delete(ctx, "a.pdf"))
	_, err = store.Get(ctx, "a.pdf")
	assert.Error(t, err)
}

func TestLocalStoreEscapesSlashes(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	// 对象名中的分隔符不会逃出存储目录
	require.NoError(t, store.Put(ctx, "nested/path.pdf", bytes.NewReader([]byte("x"))))

	data, err := store.Get(ctx, "nested/path.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}
