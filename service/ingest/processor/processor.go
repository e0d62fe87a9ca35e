package processor

import (
	"context"

	"github.com/tmc/langchaingo/schema"
)

const (
	chunkSize    = 4000
	chunkOverlap = 200
)

var separators = []string{"\n\n", "\n", "。", "！", "？", "；", "，", ". ", " ", ""}

// Processor 文件内容的加载与切分
type Processor interface {
	// 判断是否支持传入的扩展名
	CanProcess(ext string) bool

	// 将原始内容切分为文档chunk
	Split(ctx context.Context, data []byte) ([]schema.Document, error)
}
