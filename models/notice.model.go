package models

import (
	"gorm.io/gorm"
)

// Notice is an announcement shown on the site notice board.
type Notice struct {
	gorm.Model
	Title       string `json:"title" gorm:"not null"`
	Content     string `json:"content" gorm:"type:text"`
	IsPinned    bool   `json:"is_pinned" gorm:"default:false"`
	IsPublished bool   `json:"is_published" gorm:"default:true"`
	ViewCount   int    `json:"view_count" gorm:"default:0"`
	IsDeleted   bool   `gorm:"default:false"`
}
