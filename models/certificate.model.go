package models

import (
	"time"

	"gorm.io/gorm"
)

// CertificateVerification is the public-lookup record proving a certificate's
// authenticity. Created once at issuance; VerifiedCount is incremented on
// every successful public lookup.
type CertificateVerification struct {
	gorm.Model
	Code            string    `json:"code" gorm:"uniqueIndex;not null"` // short human-enterable code
	EnrollmentID    uint      `json:"enrollment_id" gorm:"index;not null"`
	CertificateID   string    `json:"certificate_id"` // template identifier
	UserName        string    `json:"user_name"`
	CertificateName string    `json:"certificate_name"`
	CompletionDate  time.Time `json:"completion_date"`
	VerifiedCount   int       `json:"verified_count" gorm:"default:0"`
}
