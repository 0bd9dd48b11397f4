package model

import "time"

// BaseModel 公共字段，不使用 gorm.Model 的软删除（短链记录永不物理删除）
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
