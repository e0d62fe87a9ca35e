package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"rag-console-backend/config"
	"rag-console-backend/model"
	"rag-console-backend/service/ingest/processor"
	"rag-console-backend/utils"

	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/vectorstores"
	v2 "github.com/tmc/langchaingo/vectorstores/milvus/v2"
)

const defaultEmbeddingBatchSize = 10

// ETLRunner 本地摄取执行器：加载文件内容，切分、向量化后写入Milvus
// 站点爬取没有本地实现，委托给模拟执行器
type ETLRunner struct {
	objects    ObjectWriter
	store      vectorstores.VectorStore
	processors []processor.Processor
	crawler    Runner
}

var _ Runner = &ETLRunner{}

func NewETLRunner(cfg *config.Config, objects ObjectWriter, crawler Runner) (*ETLRunner, error) {
	client, err := openai.New(
		openai.WithEmbeddingModel(cfg.Model.EmbeddingModel),
		openai.WithToken(cfg.Model.APIKey),
		openai.WithBaseURL(cfg.Model.BaseURL),
		openai.WithHTTPClient(utils.NewHTTPClient(utils.WithTimeout(60*time.Second))),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder client: %v", err)
	}

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithBatchSize(defaultEmbeddingBatchSize),
		embeddings.WithStripNewLines(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %v", err)
	}

	clientConfig := milvusclient.ClientConfig{
		Address: cfg.Milvus.Endpoint,
		APIKey:  cfg.Milvus.APIKey,
	}

	store, err := v2.New(context.Background(), clientConfig,
		v2.WithEmbedder(embedder),
		v2.WithCollectionName(cfg.Milvus.Collection),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus vector store: %v", err)
	}

	return &ETLRunner{
		objects: objects,
		store:   store,
		processors: []processor.Processor{
			processor.NewPDFProcessor(),
			processor.NewMarkdownProcessor(),
		},
		crawler: crawler,
	}, nil
}

func (r *ETLRunner) RunFile(ctx context.Context, item *model.FileItem) (int, error) {
	data, err := r.objects.Get(ctx, item.ObjectName)
	if err != nil {
		return 0, fmt.Errorf("failed to load file content: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(item.ObjectName))
	for _, p := range r.processors {
		if !p.CanProcess(ext) {
			continue
		}

		docs, err := p.Split(ctx, data)
		if err != nil {
			return 0, err
		}

		now := time.Now().Unix()
		for i := range docs {
			if docs[i].Metadata == nil {
				docs[i].Metadata = make(map[string]any)
			}
			docs[i].Metadata["source"] = item.ObjectName
			docs[i].Metadata["created_at"] = now
		}

		if _, err := r.store.AddDocuments(ctx, docs); err != nil {
			return 0, fmt.Errorf("error loading documents to vector store: %v", err)
		}
		return len(docs), nil
	}

	return 0, fmt.Errorf("no processor found for file type: %s", ext)
}

func (r *ETLRunner) RunSite(ctx context.Context, site *model.Site) (int, error) {
	return r.crawler.RunSite(ctx, site)
}
