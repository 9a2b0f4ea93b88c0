package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrEnrollmentNotFound is returned when the referenced enrollment does not exist.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrCourseNotFound is returned when the referenced course does not exist or is inactive.
	ErrCourseNotFound = errors.New("course not found")
	// ErrNotOwner is returned when an enrollment is accessed by a non-owning user.
	ErrNotOwner = errors.New("enrollment does not belong to this user")
)

// EligibilityError is returned by CompleteIfEligible when the watch progress
// is below the completion threshold. It carries the current percentage so the
// caller can show "you are at X%, need 98%".
type EligibilityError struct {
	Percent float64
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("watch progress at %.1f%%, %d%% required for completion", e.Percent, CompletionThresholdPercent)
}

// PaymentError is a rejection from the payment provider. The provider's
// message and HTTP status are propagated to the caller; no enrollment is
// created when confirmation fails.
type PaymentError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment provider rejected the request (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

// isUniqueViolation reports whether err is a unique-constraint failure.
// Postgres and SQLite word it differently, so both are matched.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
