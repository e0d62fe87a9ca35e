package request

type CreateSiteRequest struct {
	URL        string `json:"url" binding:"required"`
	Scope      string `json:"scope"`
	Type       string `json:"type"`
	AutoIngest bool   `json:"auto_ingest"`
}

// BulkSitesRequest 粘贴文本批量提交站点
type BulkSitesRequest struct {
	Text       string `json:"text" binding:"required"`
	Scope      string `json:"scope"`
	Type       string `json:"type"`
	AutoIngest bool   `json:"auto_ingest"`
}
