package models

import (
	"time"

	"gorm.io/gorm"
)

// PageView is a single analytics hit ingested from the frontend.
type PageView struct {
	gorm.Model
	Path        string    `json:"path" gorm:"index;not null"`
	Referrer    string    `json:"referrer" gorm:"default:''"`
	UserAgent   string    `json:"user_agent" gorm:"default:''"`
	VisitorHash string    `json:"visitor_hash" gorm:"index;default:''"`
	OccurredAt  time.Time `json:"occurred_at" gorm:"index"`
}
