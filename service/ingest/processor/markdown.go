package processor

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// MarkdownProcessor Markdown文件处理器，兼容纯文本文件
type MarkdownProcessor struct {
	splitter textsplitter.TextSplitter
}

var _ Processor = &MarkdownProcessor{}

// 匹配形如 "# xxx ## xxx" 的chunk
var headerOnlyRegex = regexp.MustCompile(`^\s*(?:#{1,6}\s+.+\n?)+\s*$`)

func NewMarkdownProcessor() *MarkdownProcessor {
	return &MarkdownProcessor{
		splitter: textsplitter.NewMarkdownTextSplitter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithHeadingHierarchy(true), // 保留父级标题信息
			textsplitter.WithSecondSplitter(textsplitter.NewRecursiveCharacter(
				textsplitter.WithChunkSize(chunkSize),
				textsplitter.WithChunkOverlap(chunkOverlap),
				textsplitter.WithSeparators(separators),
			)),
		),
	}
}

func (p *MarkdownProcessor) CanProcess(ext string) bool {
	switch ext {
	case ".md", ".markdown", ".txt", ".text":
		return true
	}
	return false
}

func (p *MarkdownProcessor) Split(ctx context.Context, data []byte) ([]schema.Document, error) {
	reader := bytes.NewReader(data)
	loader := documentloaders.NewText(reader)

	docs, err := loader.LoadAndSplit(ctx, p.splitter)
	if err != nil {
		return nil, fmt.Errorf("error loading and spliting markdown: %v", err)
	}

	// 过滤只有孤立标题的chunk
	return filterStandaloneHeaders(docs), nil
}

func filterStandaloneHeaders(docs []schema.Document) []schema.Document {
	var filtered []schema.Document
	for _, doc := range docs {
		content := strings.TrimSpace(doc.PageContent)
		if content == "" {
			continue
		}
		if headerOnlyRegex.MatchString(content) {
			continue
		}
		filtered = append(filtered, doc)
	}
	return filtered
}
