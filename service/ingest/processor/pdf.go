package processor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

type PDFProcessor struct {
	splitter textsplitter.TextSplitter
}

var _ Processor = &PDFProcessor{}

func NewPDFProcessor() *PDFProcessor {
	return &PDFProcessor{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithSeparators(separators),
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

func (p *PDFProcessor) CanProcess(ext string) bool {
	return ext == ".pdf"
}

func (p *PDFProcessor) Split(ctx context.Context, data []byte) ([]schema.Document, error) {
	reader := bytes.NewReader(data)
	loader := documentloaders.NewPDF(reader, int64(len(data)))

	docs, err := loader.LoadAndSplit(ctx, p.splitter)
	if err != nil {
		return nil, fmt.Errorf("error loading and spliting pdf: %v", err)
	}
	return docs, nil
}
