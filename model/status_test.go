package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		unknown bool
	}{
		{"pending", StatusPending, false},
		{"processing", StatusProcessing, false},
		{"done", StatusDone, false},
		{"error", StatusError, false},
		{"uploaded", StatusDone, false},
		{"processed", StatusDone, false},
		{"completed", StatusDone, false},
		{"crawling", StatusProcessing, false},
		{"running", StatusProcessing, false},
		{"queued", StatusPending, false},
		{"failed", StatusError, false},
		{"processed_failed", StatusError, false},
		{"  Done  ", StatusDone, false},
		{"UPLOADED", StatusDone, false},
		{"", StatusPending, true},
		{"whatever", StatusPending, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := NormalizeStatus(tt.raw)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.unknown, got.Unknown)
			assert.Equal(t, tt.raw, got.Raw)
		})
	}
}

func TestNormalizedStatusDisplay(t *testing.T) {
	assert.Equal(t, "done", NormalizeStatus("uploaded").Display())
	assert.Equal(t, "unknown: mystery", NormalizeStatus("mystery").Display())
	assert.Equal(t, "pending", NormalizeStatus("").Display())
}

func TestFileItemMarkTransitions(t *testing.T) {
	item := &FileItem{Status: StatusPending}

	item.MarkDone(12)
	assert.Equal(t, StatusDone, item.Status)
	assert.Equal(t, 12, *item.IngestedChunks)
	assert.Nil(t, item.ErrorMessage)

	// 再次进入处理中会清空上一轮结果
	item.MarkProcessing()
	assert.Equal(t, StatusProcessing, item.Status)
	assert.Nil(t, item.IngestedChunks)
	assert.Nil(t, item.ErrorMessage)

	item.MarkError("boom")
	assert.Equal(t, StatusError, item.Status)
	assert.Nil(t, item.IngestedChunks)
	assert.Equal(t, "boom", *item.ErrorMessage)
}
