package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses. Values match what the frontend and the payment
// reconciliation flow exchange, so they stay lowercase.
const (
	EnrollmentStatusPending        = "pending"
	EnrollmentStatusPendingPayment = "pending_payment"
	EnrollmentStatusApproved       = "approved"
	EnrollmentStatusRejected       = "rejected"
	EnrollmentStatusCompleted      = "completed"

	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Enrollment is one learner's relationship to one course: payment state,
// video watch progress and, once completed, the issued certificate number.
// At most one row exists per (user, course); the unique index is the
// safety net under concurrent checkout and webhook delivery.
type Enrollment struct {
	gorm.Model
	UserID        uint   `json:"user_id" gorm:"not null;uniqueIndex:ux_enrollments_user_course,priority:1"`
	CourseID      uint   `json:"course_id" gorm:"not null;uniqueIndex:ux_enrollments_user_course,priority:2"`
	Status        string `json:"status" gorm:"default:'pending';index"`
	PaymentStatus string `json:"payment_status" gorm:"default:'unpaid'"`
	PaymentAmount int    `json:"payment_amount" gorm:"default:0"`
	PaymentKey    string `json:"payment_key" gorm:"index;default:''"` // provider transaction reference
	OrderID       string `json:"order_id" gorm:"index;default:''"`

	// Video progress, all in seconds. MaxWatchedPosition never regresses.
	WatchedSeconds       int `json:"watched_seconds" gorm:"default:0"`
	VideoDurationSeconds int `json:"video_duration_seconds" gorm:"default:0"`
	LastWatchedPosition  int `json:"last_watched_position" gorm:"default:0"`
	MaxWatchedPosition   int `json:"max_watched_position" gorm:"default:0"`

	// Set exactly once, at the completed transition.
	CompletedAt       *time.Time `json:"completed_at"`
	CertificateNumber *string    `json:"certificate_number" gorm:"uniqueIndex"`

	// Virtual account details for display while awaiting deposit.
	VABankName      string     `json:"va_bank_name" gorm:"default:''"`
	VAAccountNumber string     `json:"va_account_number" gorm:"default:''"`
	VACustomerName  string     `json:"va_customer_name" gorm:"default:''"`
	VADueDate       *time.Time `json:"va_due_date"`
}
