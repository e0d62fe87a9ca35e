package rag

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"rag-console-backend/config"
	"rag-console-backend/utils"

	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	v2 "github.com/tmc/langchaingo/vectorstores/milvus/v2"
)

const (
	defaultTopK = 8
	maxTopK     = 20

	answerTemperature = 0.2
)

//go:embed prompts/rag_prompt.txt
var ragPromptText string

var ragPrompt = template.Must(template.New("rag").Parse(ragPromptText))

// Reference 回答引用的chunk来源
type Reference struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// Answer 一次检索增强问答的结果
type Answer struct {
	Text       string
	References []Reference
	TopK       int
	Hits       int
}

// Service 检索增强问答：向量检索后交给LLM生成回答
type Service struct {
	llm        *openai.LLM
	store      vectorstores.VectorStore
	chatModel  string
	collection string
}

func New(cfg *config.Config) (*Service, error) {
	// 配置 300s 超时时间处理 LLM 长回答
	llm, err := openai.New(
		openai.WithModel(cfg.Model.ChatModel),
		openai.WithToken(cfg.Model.APIKey),
		openai.WithBaseURL(cfg.Model.BaseURL),
		openai.WithHTTPClient(utils.NewHTTPClient(utils.WithTimeout(300*time.Second))),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %v", err)
	}

	embedderClient, err := openai.New(
		openai.WithEmbeddingModel(cfg.Model.EmbeddingModel),
		openai.WithToken(cfg.Model.APIKey),
		openai.WithBaseURL(cfg.Model.BaseURL),
		openai.WithHTTPClient(utils.DefaultHTTPClient()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder client: %v", err)
	}

	embedder, err := embeddings.NewEmbedder(embedderClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %v", err)
	}

	store, err := v2.New(context.Background(), milvusclient.ClientConfig{
		Address: cfg.Milvus.Endpoint,
		APIKey:  cfg.Milvus.APIKey,
	},
		v2.WithEmbedder(embedder),
		v2.WithCollectionName(cfg.Milvus.Collection),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus vector store: %v", err)
	}

	return &Service{
		llm:        llm,
		store:      store,
		chatModel:  cfg.Model.ChatModel,
		collection: cfg.Milvus.Collection,
	}, nil
}

// ClampTopK top_k限定在[1, 20]，未指定时取默认值
func ClampTopK(topK int) int {
	if topK <= 0 {
		return defaultTopK
	}
	if topK > maxTopK {
		return maxTopK
	}
	return topK
}

func (s *Service) Collection() string {
	return s.collection
}

// Ask 检索top_k个相关chunk并生成回答
func (s *Service) Ask(ctx context.Context, question string, topK int) (*Answer, error) {
	topK = ClampTopK(topK)

	docs, err := s.store.SimilaritySearch(ctx, question, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %v", err)
	}

	prompt, err := buildPrompt(question, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %v", err)
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt,
		llms.WithTemperature(answerTemperature),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %v", err)
	}

	return &Answer{
		Text:       strings.TrimSpace(text),
		References: buildReferences(docs),
		TopK:       topK,
		Hits:       len(docs),
	}, nil
}

func buildPrompt(question string, docs []schema.Document) (string, error) {
	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, strings.TrimSpace(doc.PageContent))
	}

	var sb strings.Builder
	err := ragPrompt.Execute(&sb, map[string]any{
		"Question":  question,
		"Documents": contents,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func buildReferences(docs []schema.Document) []Reference {
	refs := make([]Reference, 0, len(docs))
	for _, doc := range docs {
		source, _ := doc.Metadata["source"].(string)
		refs = append(refs, Reference{
			Source: source,
			Score:  float64(doc.Score),
		})
	}
	return refs
}
