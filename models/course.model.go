package models

import (
	"gorm.io/gorm"
)

// Course is a sellable course in the catalog. Category drives the
// certificate number prefix and the certificate template.
type Course struct {
	gorm.Model
	Title           string `json:"title" gorm:"not null"`
	Slug            string `json:"slug" gorm:"uniqueIndex;not null"`
	Category        string `json:"category" gorm:"index;default:''"`
	Description     string `json:"description"`
	Instructor      string `json:"instructor" gorm:"default:''"`
	Price           int    `json:"price" gorm:"not null"` // KRW
	DurationSeconds int    `json:"duration_seconds" gorm:"default:0"`
	ThumbnailURL    string `json:"thumbnail_url"`
	CertificateID   string `json:"certificate_id" gorm:"default:''"` // certificate template
	Status          string `json:"status" gorm:"default:'ACTIVE'"`   // ACTIVE, INACTIVE
	IsDeleted       bool   `gorm:"default:false"`
}
