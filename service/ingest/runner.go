package ingest

import (
	"context"
	"math/rand/v2"
	"time"

	"rag-console-backend/config"
	"rag-console-backend/model"
)

// Runner 摄取执行端口，返回结果数（文件为chunk数，站点为页面数）
// 状态流转由调用方负责：调用前记录已持久化为 processing，终态由调用方写回
type Runner interface {
	RunFile(ctx context.Context, item *model.FileItem) (int, error)
	RunSite(ctx context.Context, site *model.Site) (int, error)
}

// SimulatedRunner 模拟执行器：随机延迟后返回随机结果数，永不失败
// 用于未配置真实后端的离线演示与测试环境
type SimulatedRunner struct {
	minLatency time.Duration
	maxLatency time.Duration
	minCount   int
	maxCount   int
}

var _ Runner = &SimulatedRunner{}

func NewSimulatedRunner(cfg *config.IngestConfig) *SimulatedRunner {
	return &SimulatedRunner{
		minLatency: cfg.SimMinLatency.Std(),
		maxLatency: cfg.SimMaxLatency.Std(),
		minCount:   cfg.SimMinCount,
		maxCount:   cfg.SimMaxCount,
	}
}

func (r *SimulatedRunner) RunFile(ctx context.Context, _ *model.FileItem) (int, error) {
	return r.run(), nil
}

func (r *SimulatedRunner) RunSite(ctx context.Context, _ *model.Site) (int, error) {
	return r.run(), nil
}

// 任务一旦启动即运行至完成，不提供取消
func (r *SimulatedRunner) run() int {
	time.Sleep(r.latency())

	span := r.maxCount - r.minCount
	if span <= 0 {
		return r.minCount
	}
	return r.minCount + rand.IntN(span+1)
}

func (r *SimulatedRunner) latency() time.Duration {
	span := r.maxLatency - r.minLatency
	if span <= 0 {
		return r.minLatency
	}
	return r.minLatency + rand.N(span)
}
