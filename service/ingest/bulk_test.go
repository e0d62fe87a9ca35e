package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"rag-console-backend/dao"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCandidates(t *testing.T) {
	tokens := SplitCandidates("a.com, b.com\nc.com\td.com e.com\r\nf.com")
	assert.Equal(t, []string{"a.com", "b.com", "c.com", "d.com", "e.com", "f.com"}, tokens)

	assert.Empty(t, SplitCandidates("  \n\t, "))
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"a.com", "https://a.com"},
		{"a.com/", "https://a.com"},
		{"http://a.com", "http://a.com"},
		{"https://a.com/docs", "https://a.com/docs"},
		{"https://a.com/?q=1", "https://a.com/?q=1"},
		{"  a.com  ", "https://a.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeURL(tt.raw), "raw=%q", tt.raw)
	}
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://a.com"))
	assert.NoError(t, ValidateURL("http://docs.example.com/path"))

	assert.Error(t, ValidateURL("https://localhost"))
	assert.Error(t, ValidateURL("ftp://a.com"))
	assert.Error(t, ValidateURL("https://"))
}

func newBulkTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	files := dao.NewJSONFileStore(filepath.Join(dir, "files.json"))
	sites := dao.NewJSONSiteStore(filepath.Join(dir, "sites.json"))
	return NewService(files, sites, newTestRunner(), newMemoryObjects())
}

func TestBulkSubmitDeduplicates(t *testing.T) {
	svc := newBulkTestService(t)

	// 同一URL的不同写法在批内折叠为一个候选
	result := svc.BulkSubmit(context.Background(), "a.com, a.com\nhttps://a.com/", "", "", false)

	assert.Equal(t, 1, result.Total)
	assert.Equal(t, []string{"https://a.com"}, result.OK)
	assert.Empty(t, result.NG)

	sites, err := svc.ListSites(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "https://a.com", sites[0].URL)
}

func TestBulkSubmitPartialFailure(t *testing.T) {
	svc := newBulkTestService(t)

	result := svc.BulkSubmit(context.Background(), "https://ok.example.com not-a-url", "", "", false)

	// 非法token只进NG，不计入Total
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, []string{"https://ok.example.com"}, result.OK)
	require.Len(t, result.NG, 1)
	assert.Equal(t, "not-a-url", result.NG[0].URL)
}

func TestBulkSubmitDuplicateInStore(t *testing.T) {
	svc := newBulkTestService(t)

	_, err := svc.CreateSite(context.Background(), "https://a.com", "", "", false)
	require.NoError(t, err)

	result := svc.BulkSubmit(context.Background(), "a.com b.com", "", "", false)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, []string{"https://b.com"}, result.OK)
	require.Len(t, result.NG, 1)
	assert.Equal(t, "https://a.com", result.NG[0].URL)
	assert.Equal(t, "duplicate url", result.NG[0].Reason)
}
