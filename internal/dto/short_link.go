package dto

import (
	"time"

	"shortlink-desk/internal/model"
)

// CreateShortLinkRequest 用于创建短链的请求参数
// URL 只做前缀补全，不做格式校验
type CreateShortLinkRequest struct {
	OriginalURL string `json:"originalUrl" binding:"required" msg:"error.original_url_required"`
	CustomCode  string `json:"customCode"` // 去除首尾空白后由注册表校验
	Copy        bool   `json:"copy"`       // 创建成功后复制短链到剪贴板
}

// ShortLinkResponse 列表和创建接口返回的短链
type ShortLinkResponse struct {
	ID          uint      `json:"id"`
	OriginalURL string    `json:"originalUrl"`
	ShortCode   string    `json:"shortCode"`
	ShortURL    string    `json:"shortUrl"`
	CustomCode  bool      `json:"customCode"`
	Clicks      int64     `json:"clicks"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewShortLinkResponse shortURL 由调用方根据 base_url 拼接
func NewShortLinkResponse(link model.ShortLink, shortURL string) ShortLinkResponse {
	return ShortLinkResponse{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortCode:   link.ShortCode,
		ShortURL:    shortURL,
		CustomCode:  link.CustomCode,
		Clicks:      link.Clicks,
		IsActive:    link.IsActive,
		CreatedAt:   link.CreatedAt,
	}
}

// OpenShortLinkResponse 打开短链后返回原始地址
type OpenShortLinkResponse struct {
	OriginalURL string `json:"originalUrl"`
}

// CopyShortLinkResponse 复制到剪贴板的内容
type CopyShortLinkResponse struct {
	Text string `json:"text"`
}
