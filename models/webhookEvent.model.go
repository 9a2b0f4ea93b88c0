package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentWebhookEvent stores every webhook delivery from the payment provider
// for auditing. Processing is idempotent, so duplicates are recorded as-is.
type PaymentWebhookEvent struct {
	gorm.Model
	EventType       string     `json:"event_type" gorm:"index;not null"`
	PaymentKey      string     `json:"payment_key" gorm:"index;default:''"`
	OrderID         string     `json:"order_id" gorm:"default:''"`
	PaymentStatus   string     `json:"payment_status" gorm:"default:''"`
	PayloadRaw      string     `json:"payload_raw" gorm:"type:text"`
	ProcessedAt     *time.Time `json:"processed_at"`
	ProcessingError string     `json:"processing_error" gorm:"type:text"`
}
