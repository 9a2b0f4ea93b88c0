package models

import (
	"gorm.io/gorm"
)

// Review is a course review left by an enrolled learner, one per (user, course).
type Review struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"not null;uniqueIndex:ux_reviews_user_course,priority:1"`
	CourseID  uint   `json:"course_id" gorm:"not null;uniqueIndex:ux_reviews_user_course,priority:2"`
	Rating    int    `json:"rating" gorm:"not null"` // 1..5
	Content   string `json:"content" gorm:"type:text"`
	IsDeleted bool   `gorm:"default:false"`
}
