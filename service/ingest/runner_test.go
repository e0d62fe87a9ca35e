package ingest

import (
	"context"
	"testing"
	"time"

	"rag-console-backend/config"
	"rag-console-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedRunnerNeverFails(t *testing.T) {
	runner := newTestRunner()

	for i := 0; i < 50; i++ {
		chunks, err := runner.RunFile(context.Background(), &model.FileItem{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, chunks, 5)
		assert.LessOrEqual(t, chunks, 25)

		pages, err := runner.RunSite(context.Background(), &model.Site{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pages, 5)
		assert.LessOrEqual(t, pages, 25)
	}
}

func TestSimulatedRunnerDegenerateRanges(t *testing.T) {
	runner := NewSimulatedRunner(&config.IngestConfig{
		SimMinLatency: config.Duration(time.Millisecond),
		SimMaxLatency: config.Duration(time.Millisecond),
		SimMinCount:   10,
		SimMaxCount:   10,
	})

	count, err := runner.RunFile(context.Background(), &model.FileItem{})
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestSimulatedRunnerLatencyBounds(t *testing.T) {
	runner := NewSimulatedRunner(&config.IngestConfig{
		SimMinLatency: config.Duration(20 * time.Millisecond),
		SimMaxLatency: config.Duration(40 * time.Millisecond),
		SimMinCount:   1,
		SimMaxCount:   2,
	})

	start := time.Now()
	_, err := runner.RunFile(context.Background(), &model.FileItem{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
