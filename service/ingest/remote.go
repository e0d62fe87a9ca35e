package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rag-console-backend/model"
	"rag-console-backend/utils"

	"github.com/avast/retry-go/v4"
)

const (
	remoteCallAttempts = 3
	remoteCallTimeout  = 120 * time.Second
)

// RemoteClient 外部摄取后端客户端
// 响应形态在存储边界一次性解码：裸数组与多种包装对象均被接受，
// 无法识别的形态退化为空列表而非报错
type RemoteClient struct {
	base   string
	client *http.Client
}

func NewRemoteClient(base string) *RemoteClient {
	return &RemoteClient{
		base:   strings.TrimSuffix(base, "/"),
		client: utils.NewHTTPClient(utils.WithTimeout(remoteCallTimeout)),
	}
}

// unwrapList 在裸数组与 {files}/{sites}/{items}/{data} 包装间做形态吸收
func unwrapList(data []byte, keys ...string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return json.RawMessage(trimmed), true
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, false
	}

	for _, key := range append(keys, "items", "data") {
		if raw, ok := wrapper[key]; ok && strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
			return raw, true
		}
	}
	return nil, false
}

// DecodeFileList ok=false 表示形态不可识别（Malformed）
func DecodeFileList(data []byte) ([]model.FileItem, bool) {
	raw, ok := unwrapList(data, "files")
	if !ok {
		return nil, false
	}

	var items []model.FileItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func DecodeSiteList(data []byte) ([]model.Site, bool) {
	raw, ok := unwrapList(data, "sites")
	if !ok {
		return nil, false
	}

	var sites []model.Site
	if err := json.Unmarshal(raw, &sites); err != nil {
		return nil, false
	}
	return sites, true
}

func (c *RemoteClient) ListFiles(ctx context.Context) ([]model.FileItem, error) {
	data, err := c.get(ctx, "/files")
	if err != nil {
		return nil, err
	}

	items, ok := DecodeFileList(data)
	if !ok {
		slog.Warn("unrecognized remote file list shape, treating as empty")
		return nil, nil
	}
	return items, nil
}

func (c *RemoteClient) ListSites(ctx context.Context) ([]model.Site, error) {
	data, err := c.get(ctx, "/sites")
	if err != nil {
		return nil, err
	}

	sites, ok := DecodeSiteList(data)
	if !ok {
		slog.Warn("unrecognized remote site list shape, treating as empty")
		return nil, nil
	}
	return sites, nil
}

// IngestFile 委托远端执行文件摄取，返回chunk数
func (c *RemoteClient) IngestFile(ctx context.Context, id int64) (int, error) {
	data, err := c.post(ctx, fmt.Sprintf("/files/%d/ingest_local", id))
	if err != nil {
		return 0, err
	}

	var resp struct {
		IngestedChunks int `json:"ingested_chunks"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, fmt.Errorf("unexpected ingest response: %w", err)
	}
	return resp.IngestedChunks, nil
}

func (c *RemoteClient) ReingestSite(ctx context.Context, id int64) (int, error) {
	data, err := c.post(ctx, fmt.Sprintf("/sites/%d/reingest", id))
	if err != nil {
		return 0, err
	}

	var resp struct {
		IngestedURLs int `json:"ingested_urls"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, fmt.Errorf("unexpected reingest response: %w", err)
	}
	return resp.IngestedURLs, nil
}

func (c *RemoteClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *RemoteClient) post(ctx context.Context, path string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			body, err = c.do(req)
			return err
		},
		retry.Attempts(remoteCallAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("retrying remote ingest call",
				"attempt", n+1,
				"path", path,
				"err", err)
		}),
	)
	return body, err
}

func (c *RemoteClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("remote backend returned %d: %s", resp.StatusCode, snippet)
	}
	return body, nil
}

// RemoteRunner 将摄取执行委托给外部后端
type RemoteRunner struct {
	client *RemoteClient
}

var _ Runner = &RemoteRunner{}

func NewRemoteRunner(client *RemoteClient) *RemoteRunner {
	return &RemoteRunner{client: client}
}

func (r *RemoteRunner) RunFile(ctx context.Context, item *model.FileItem) (int, error) {
	return r.client.IngestFile(ctx, item.ID)
}

func (r *RemoteRunner) RunSite(ctx context.Context, site *model.Site) (int, error) {
	return r.client.ReingestSite(ctx, site.ID)
}
