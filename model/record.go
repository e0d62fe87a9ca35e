package model

import "time"

type SiteScope string

const (
	// 仅抓取该URL本身
	SiteScopeSingle SiteScope = "single"

	// 抓取该URL配下的所有页面
	SiteScopeAll SiteScope = "all"
)

const DefaultSiteType = "static_html"

// FileItem 知识文件记录
// resultCount/errorMessage 仅在对应终态下非空
type FileItem struct {
	ID             int64     `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
	Filename       string    `gorm:"not null" json:"filename"`
	ObjectName     string    `gorm:"not null" json:"object_name"`
	Status         Status    `gorm:"not null;default:pending" json:"status"`
	IngestedChunks *int      `json:"ingested_chunks"`
	ErrorMessage   *string   `json:"error_message"`
}

func (FileItem) TableName() string {
	return "rag_files"
}

// Site 站点记录，url 以规范化形式唯一
type Site struct {
	ID           int64     `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
	URL          string    `gorm:"not null;uniqueIndex" json:"url"`
	Scope        SiteScope `gorm:"not null;default:all" json:"scope"`
	SiteType     string    `gorm:"not null" json:"type"`
	Status       Status    `gorm:"not null;default:pending" json:"status"`
	IngestedURLs *int      `json:"ingested_urls"`
	ErrorMessage *string   `json:"error_message"`
}

func (Site) TableName() string {
	return "rag_sites"
}

// MarkProcessing 进入处理中状态，清空上一轮的终态字段
func (f *FileItem) MarkProcessing() {
	f.Status = StatusProcessing
	f.IngestedChunks = nil
	f.ErrorMessage = nil
}

func (f *FileItem) MarkDone(chunks int) {
	f.Status = StatusDone
	f.IngestedChunks = &chunks
	f.ErrorMessage = nil
}

func (f *FileItem) MarkError(msg string) {
	f.Status = StatusError
	f.IngestedChunks = nil
	f.ErrorMessage = &msg
}

func (s *Site) MarkProcessing() {
	s.Status = StatusProcessing
	s.IngestedURLs = nil
	s.ErrorMessage = nil
}

func (s *Site) MarkDone(pages int) {
	s.Status = StatusDone
	s.IngestedURLs = &pages
	s.ErrorMessage = nil
}

func (s *Site) MarkError(msg string) {
	s.Status = StatusError
	s.IngestedURLs = nil
	s.ErrorMessage = &msg
}
