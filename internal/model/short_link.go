package model

// ShortLink 短链记录
// ShortCode 全局唯一，记录停用后短码仍被占用
type ShortLink struct {
	BaseModel
	OriginalURL string `gorm:"size:2048;not null" json:"originalUrl"`
	ShortCode   string `gorm:"uniqueIndex;size:32;not null" json:"shortCode"`
	CustomCode  bool   `gorm:"not null;default:false" json:"customCode"`
	Clicks      int64  `gorm:"not null;default:0" json:"clicks"`
	IsActive    bool   `gorm:"not null;default:true;index" json:"isActive"`
}
