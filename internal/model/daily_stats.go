package model

// DailyStat 每日统计快照
type DailyStat struct {
	BaseModel
	Date        string `gorm:"size:10;uniqueIndex;not null" json:"date"` // YYYY-MM-DD
	ActiveLinks int64  `gorm:"default:0" json:"activeLinks"`
	TotalClicks int64  `gorm:"default:0" json:"totalClicks"`
}
