package chunks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"rag-console-backend/config"

	"github.com/milvus-io/milvus/client/v2/milvusclient"
)

const (
	defaultListLimit = 20
	maxListLimit     = 50
)

// Chunk 向量库中的一条知识chunk
type Chunk struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Source    string `json:"source"`
	CreatedAt int64  `json:"created_at"`
}

// Service chunk的查询与清理，直连Milvus
type Service struct {
	client     *milvusclient.Client
	collection string
}

func New(ctx context.Context, cfg *config.MilvusConfig) (*Service, error) {
	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address: cfg.Endpoint,
		APIKey:  cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %v", err)
	}

	return &Service{
		client:     client,
		collection: cfg.Collection,
	}, nil
}

func (s *Service) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

// List 按文本子串过滤chunk，按创建时间倒序返回
func (s *Service) List(ctx context.Context, query string, limit int) ([]Chunk, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	filter := "id >= 0"
	if query != "" {
		filter = fmt.Sprintf(`text like "%%%s%%"`, escapeExprString(query))
	}

	rs, err := s.client.Query(ctx, milvusclient.NewQueryOption(s.collection).
		WithFilter(filter).
		WithOutputFields("id", "text", "source", "created_at").
		WithLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %v", err)
	}

	ids := rs.GetColumn("id")
	texts := rs.GetColumn("text")
	sources := rs.GetColumn("source")
	createdAts := rs.GetColumn("created_at")
	if ids == nil {
		return nil, nil
	}

	result := make([]Chunk, 0, ids.Len())
	for i := 0; i < ids.Len(); i++ {
		var c Chunk
		c.ID, _ = ids.GetAsInt64(i)
		if texts != nil {
			c.Text, _ = texts.GetAsString(i)
		}
		if sources != nil {
			c.Source, _ = sources.GetAsString(i)
		}
		if createdAts != nil {
			c.CreatedAt, _ = createdAts.GetAsInt64(i)
		}
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt > result[j].CreatedAt
	})
	return result, nil
}

// DeleteBySource 删除某来源的全部chunk，重摄取与记录删除时调用
func (s *Service) DeleteBySource(ctx context.Context, source string) error {
	expr := fmt.Sprintf(`source == "%s"`, escapeExprString(source))

	_, err := s.client.Delete(ctx, milvusclient.NewDeleteOption(s.collection).
		WithExpr(expr))
	if err != nil {
		return fmt.Errorf("failed to delete chunks by source: %v", err)
	}
	return nil
}

func escapeExprString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
