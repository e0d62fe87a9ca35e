package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownProcessorCanProcess(t *testing.T) {
	p := NewMarkdownProcessor()

	assert.True(t, p.CanProcess(".md"))
	assert.True(t, p.CanProcess(".markdown"))
	assert.True(t, p.CanProcess(".txt"))
	assert.False(t, p.CanProcess(".pdf"))
	assert.False(t, p.CanProcess(".docx"))
}

func TestMarkdownProcessorSplit(t *testing.T) {
	p := NewMarkdownProcessor()

	docs, err := p.Split(context.Background(), []byte("# Guide\n\nThis is the introduction.\n\n## Usage\n\nRun the binary."))
	require.NoError(t, err)
	require.NotEmpty(t, docs)

	for _, doc := range docs {
		assert.NotEmpty(t, doc.PageContent)
	}
}

func TestFilterStandaloneHeaders(t *testing.T) {
	docs, err := NewMarkdownProcessor().Split(context.Background(), []byte("# Title\n\n## Empty Section\n"))
	require.NoError(t, err)

	// 只含标题的chunk被过滤
	for _, doc := range docs {
		assert.False(t, headerOnlyRegex.MatchString(doc.PageContent), "chunk should not be header-only: %q", doc.PageContent)
	}
}

func TestPDFProcessorCanProcess(t *testing.T) {
	p := NewPDFProcessor()

	assert.True(t, p.CanProcess(".pdf"))
	assert.False(t, p.CanProcess(".md"))
}
