package model

import "strings"

// Status 记录的规范化处理状态
type Status string

const (
	// 已创建，等待处理
	StatusPending Status = "pending"

	// 处理中（站点爬取对外展示为 crawling）
	StatusProcessing Status = "processing"

	// 处理完成
	StatusDone Status = "done"

	// 处理失败
	StatusError Status = "error"
)

// 历史系统的状态同义词表，命中优先于规范值透传
var statusSynonyms = map[string]Status{
	"uploaded":         StatusDone,
	"processed":        StatusDone,
	"completed":        StatusDone,
	"crawling":         StatusProcessing,
	"running":          StatusProcessing,
	"queued":           StatusPending,
	"failed":           StatusError,
	"processed_failed": StatusError,
}

// NormalizedStatus 规范化结果，保留原始值用于展示与排查
type NormalizedStatus struct {
	Status Status
	Raw    string

	// 原始值既非规范值也非已知同义词
	Unknown bool
}

// NormalizeStatus 将任意来源的状态字符串映射到规范状态
// 全函数：未知输入不报错，回退到安全默认值 pending
func NormalizeStatus(raw string) NormalizedStatus {
	v := strings.ToLower(strings.TrimSpace(raw))

	if s, ok := statusSynonyms[v]; ok {
		return NormalizedStatus{Status: s, Raw: raw}
	}

	switch Status(v) {
	case StatusPending, StatusProcessing, StatusDone, StatusError:
		return NormalizedStatus{Status: Status(v), Raw: raw}
	}

	return NormalizedStatus{Status: StatusPending, Raw: raw, Unknown: true}
}

// Display 展示用文本，未知输入附带原始值
func (n NormalizedStatus) Display() string {
	if n.Unknown && strings.TrimSpace(n.Raw) != "" {
		return "unknown: " + n.Raw
	}
	return string(n.Status)
}
