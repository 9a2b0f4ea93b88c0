package utils

import (
	"log"
	"time"

	"krpic_backend/database"
	"krpic_backend/models"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[EXPIRY-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// sweepExpiredReservations removes virtual-account reservations whose deposit
// deadline passed more than a day ago. Hard delete so the (user, course) slot
// frees up for a fresh checkout.
func sweepExpiredReservations() {
	db := database.Database.Db

	cutoff := time.Now().Add(-24 * time.Hour)

	result := db.Unscoped().
		Where("status = ? AND va_due_date IS NOT NULL AND va_due_date < ?",
			models.EnrollmentStatusPendingPayment, cutoff).
		Delete(&models.Enrollment{})

	if result.Error != nil {
		logScheduler("Failed to sweep expired reservations: " + result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		logScheduler("Removed expired virtual-account reservations")
	}
}

// InitializeExpiryScheduler starts the hourly reservation sweep
func InitializeExpiryScheduler() *cron.Cron {
	logScheduler("Initializing reservation expiry scheduler...")

	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}

	c := cron.New(cron.WithLocation(loc))

	c.AddFunc("0 * * * *", func() {
		sweepExpiredReservations()
	})

	c.Start()

	logScheduler("Expiry scheduler started - runs hourly")
	return c
}
