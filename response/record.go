package response

import (
	"time"

	"rag-console-backend/model"
)

type FileResponse struct {
	ID             int64     `json:"id"`
	Filename       string    `json:"filename"`
	Status         string    `json:"status"`
	IngestedChunks *int      `json:"ingested_chunks"`
	ErrorMessage   *string   `json:"error_message"`
	CreatedAt      time.Time `json:"created_at"`
}

type FileListResponse struct {
	Files []FileResponse `json:"files"`
}

type IngestFileResponse struct {
	IngestedChunks int `json:"ingested_chunks"`
}

type SiteResponse struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	Scope        string    `json:"scope"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	IngestedURLs *int      `json:"ingested_urls"`
	ErrorMessage *string   `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}

type SiteListResponse struct {
	Sites []SiteResponse `json:"sites"`
}

func NewFileResponse(item *model.FileItem) FileResponse {
	return FileResponse{
		ID:             item.ID,
		Filename:       item.Filename,
		Status:         string(item.Status),
		IngestedChunks: item.IngestedChunks,
		ErrorMessage:   item.ErrorMessage,
		CreatedAt:      item.CreatedAt,
	}
}

// NewSiteResponse 站点处理中对外展示为 crawling
func NewSiteResponse(site *model.Site) SiteResponse {
	status := string(site.Status)
	if site.Status == model.StatusProcessing {
		status = "crawling"
	}
	return SiteResponse{
		ID:           site.ID,
		URL:          site.URL,
		Scope:        string(site.Scope),
		Type:         site.SiteType,
		Status:       status,
		IngestedURLs: site.IngestedURLs,
		ErrorMessage: site.ErrorMessage,
		CreatedAt:    site.CreatedAt,
	}
}
