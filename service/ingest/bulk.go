package ingest

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"rag-console-backend/dao"
	"rag-console-backend/model"
)

type BulkFailure struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// BulkResult 批量提交结果
// Total 为通过校验与去重后实际提交的候选数，非法token只进NG不计数
type BulkResult struct {
	Total int           `json:"total"`
	OK    []string      `json:"ok"`
	NG    []BulkFailure `json:"ng"`
}

// SplitCandidates 将粘贴文本拆分为候选token
// 分隔符：换行、制表、空格、逗号的任意连续组合
func SplitCandidates(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '\n', '\r', '\t', ' ', ',':
			return true
		}
		return false
	})
}

// NormalizeURL 规范化候选URL：补全scheme，裸host去掉尾部斜杠
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}

	withScheme := s
	if !strings.Contains(s, "://") {
		withScheme = "https://" + s
	}

	u, err := url.Parse(withScheme)
	if err != nil {
		return s
	}

	// 仅path为"/"且无query/fragment时视为裸host，去掉尾斜杠
	if u.Path == "/" && u.RawQuery == "" && u.Fragment == "" {
		return strings.TrimSuffix(withScheme, "/")
	}
	return withScheme
}

// ValidateURL 最小化的"像http(s) URL"判定
func ValidateURL(normalized string) error {
	u, err := url.Parse(normalized)
	if err != nil {
		return errors.New("invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("unsupported scheme")
	}
	host := u.Hostname()
	if host == "" || !strings.Contains(host, ".") {
		return errors.New("invalid host")
	}
	return nil
}

// BulkSubmit 批量提交站点：拆分、规范化、去重（首次出现优先）、校验后并发独立提交
// 等待全部落定后汇总，单个非法或重复URL不会阻塞其他项
func (s *Service) BulkSubmit(ctx context.Context, text, scope, siteType string, autoIngest bool) BulkResult {
	var result BulkResult

	seen := make(map[string]bool)
	var candidates []string

	for _, token := range SplitCandidates(text) {
		normalized := NormalizeURL(token)
		if err := ValidateURL(normalized); err != nil {
			result.NG = append(result.NG, BulkFailure{URL: token, Reason: err.Error()})
			continue
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		candidates = append(candidates, normalized)
	}

	result.Total = len(candidates)

	type outcome struct {
		url string
		err error
	}
	outcomes := make([]outcome, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate string) {
			defer wg.Done()
			_, err := s.CreateSite(ctx, candidate, scope, siteType, autoIngest)
			outcomes[i] = outcome{url: candidate, err: err}
		}(i, candidate)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.err == nil {
			result.OK = append(result.OK, o.url)
			continue
		}
		reason := o.err.Error()
		if errors.Is(o.err, dao.ErrDuplicateURL) {
			reason = "duplicate url"
		}
		result.NG = append(result.NG, BulkFailure{URL: o.url, Reason: reason})
	}

	return result
}

func normalizeScope(scope string) model.SiteScope {
	if model.SiteScope(scope) == model.SiteScopeSingle {
		return model.SiteScopeSingle
	}
	return model.SiteScopeAll
}
