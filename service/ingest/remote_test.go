package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"rag-console-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFileListShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
		len  int
	}{
		{"bare array", `[{"id":1,"filename":"a.pdf","status":"uploaded"}]`, true, 1},
		{"files wrapper", `{"files":[{"id":1},{"id":2}]}`, true, 2},
		{"items wrapper", `{"items":[{"id":1}]}`, true, 1},
		{"data wrapper", `{"data":[]}`, true, 0},
		{"empty array", `[]`, true, 0},
		{"object without list", `{"message":"hello"}`, false, 0},
		{"scalar", `42`, false, 0},
		{"garbage", `{not json`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, ok := DecodeFileList([]byte(tt.body))
			assert.Equal(t, tt.ok, ok)
			assert.Len(t, items, tt.len)
		})
	}
}

func TestDecodeSiteListWrapper(t *testing.T) {
	sites, ok := DecodeSiteList([]byte(`{"sites":[{"id":7,"url":"https://a.com","status":"crawling"}]}`))
	require.True(t, ok)
	require.Len(t, sites, 1)
	assert.Equal(t, "https://a.com", sites[0].URL)
}

func TestRemoteClientListFilesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":"shape"}`))
	}))
	defer srv.Close()

	client := NewRemoteClient(srv.URL)

	// 形态不可识别时按空列表处理，不报错
	items, err := client.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoteClientListFilesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewRemoteClient(srv.URL)

	_, err := client.ListFiles(context.Background())
	assert.Error(t, err)
}

func TestRemoteRunnerIngestFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/files/3/ingest_local", r.URL.Path)
		w.Write([]byte(`{"ingested_chunks":17}`))
	}))
	defer srv.Close()

	runner := NewRemoteRunner(NewRemoteClient(srv.URL))

	chunks, err := runner.RunFile(context.Background(), &model.FileItem{ID: 3})
	require.NoError(t, err)
	assert.Equal(t, 17, chunks)
}

func TestRemoteRunnerReingestSite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/5/reingest", r.URL.Path)
		w.Write([]byte(`{"ingested_urls":8}`))
	}))
	defer srv.Close()

	runner := NewRemoteRunner(NewRemoteClient(srv.URL))

	pages, err := runner.RunSite(context.Background(), &model.Site{ID: 5})
	require.NoError(t, err)
	assert.Equal(t, 8, pages)
}
