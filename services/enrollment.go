package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"krpic_backend/models"

	"gorm.io/gorm"
)

// CompletionThresholdPercent is the watch progress required before a course
// counts as completed and a certificate can be issued.
const CompletionThresholdPercent = 98

// certNumberMaxRetries bounds the retry loop around the certificate-number
// unique index when two completions race on the same category/year sequence.
const certNumberMaxRetries = 3

// EnrollmentService owns the enrollment lifecycle: creation on payment,
// watch-progress tracking and the completed transition with certificate
// issuance.
type EnrollmentService struct {
	db *gorm.DB
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// CreateOrReuseEnrollment inserts or revives the single enrollment row for
// (user, course) after a settled payment. Safe to call more than once for the
// same logical payment event: approved/completed rows are returned unchanged,
// anything else is promoted to approved/paid in place.
func (s *EnrollmentService) CreateOrReuseEnrollment(userID, courseID uint, amountPaid int) (uint, error) {
	var course models.Course
	if err := s.db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCourseNotFound
		}
		return 0, err
	}

	amount := amountPaid
	if amount <= 0 {
		amount = course.Price
	}

	var enrollment models.Enrollment
	err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err == nil {
		if enrollment.Status == models.EnrollmentStatusApproved || enrollment.Status == models.EnrollmentStatusCompleted {
			return enrollment.ID, nil
		}
		return enrollment.ID, s.approveInPlace(enrollment.ID, amount)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	enrollment = models.Enrollment{
		UserID:               userID,
		CourseID:             courseID,
		Status:               models.EnrollmentStatusApproved,
		PaymentStatus:        models.PaymentStatusPaid,
		PaymentAmount:        amount,
		VideoDurationSeconds: course.DurationSeconds,
	}
	if err := s.db.Create(&enrollment).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost the insert race: another request created the row first.
			// The (user_id, course_id) unique index is the safety net here.
			if ferr := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; ferr != nil {
				return 0, ferr
			}
			if enrollment.Status == models.EnrollmentStatusApproved || enrollment.Status == models.EnrollmentStatusCompleted {
				return enrollment.ID, nil
			}
			return enrollment.ID, s.approveInPlace(enrollment.ID, amount)
		}
		return 0, err
	}

	return enrollment.ID, nil
}

func (s *EnrollmentService) approveInPlace(enrollmentID uint, amount int) error {
	return s.db.Model(&models.Enrollment{}).Where("id = ?", enrollmentID).
		Updates(map[string]interface{}{
			"status":         models.EnrollmentStatusApproved,
			"payment_status": models.PaymentStatusPaid,
			"payment_amount": amount,
		}).Error
}

// RecordProgress persists a watch-progress report. The stored maximum position
// is a monotonic ratchet: the comparison happens inside the UPDATE itself, so
// a stale report from a second tab can never regress it. Last position is
// last-writer-wins. No effect on status.
func (s *EnrollmentService) RecordProgress(userID, enrollmentID uint, position, observedMax, duration int) error {
	if position < 0 {
		position = 0
	}
	if observedMax < 0 {
		observedMax = 0
	}
	if duration < 0 {
		duration = 0
	}

	if _, err := s.ownedEnrollment(userID, enrollmentID); err != nil {
		return err
	}

	ratchet := gorm.Expr("CASE WHEN max_watched_position > ? THEN max_watched_position ELSE ? END", observedMax, observedMax)
	return s.db.Model(&models.Enrollment{}).Where("id = ?", enrollmentID).
		Updates(map[string]interface{}{
			"last_watched_position":  position,
			"video_duration_seconds": duration,
			"max_watched_position":   ratchet,
			"watched_seconds":        ratchet,
		}).Error
}

// CompleteIfEligible marks the enrollment completed and issues its certificate
// number once the watch progress crosses the threshold. Idempotent: an already
// completed enrollment returns its existing number without mutation. Below the
// threshold it fails with an *EligibilityError carrying the current percentage.
func (s *EnrollmentService) CompleteIfEligible(userID, enrollmentID uint) (string, error) {
	enrollment, err := s.ownedEnrollment(userID, enrollmentID)
	if err != nil {
		return "", err
	}

	if enrollment.Status == models.EnrollmentStatusCompleted && enrollment.CertificateNumber != nil {
		return *enrollment.CertificateNumber, nil
	}

	percent := 0.0
	if enrollment.VideoDurationSeconds > 0 {
		percent = float64(enrollment.MaxWatchedPosition) / float64(enrollment.VideoDurationSeconds) * 100
	}
	if percent < CompletionThresholdPercent {
		return "", &EligibilityError{Percent: percent}
	}

	return s.issueCertificate(enrollment)
}

// ForceComplete is the admin path for marking an enrollment completed without
// ownership or threshold checks. It shares the issuance logic with
// CompleteIfEligible so certificate numbers are only ever generated one way.
func (s *EnrollmentService) ForceComplete(enrollmentID uint) (string, error) {
	var enrollment models.Enrollment
	if err := s.db.First(&enrollment, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrEnrollmentNotFound
		}
		return "", err
	}

	if enrollment.Status == models.EnrollmentStatusCompleted && enrollment.CertificateNumber != nil {
		return *enrollment.CertificateNumber, nil
	}

	return s.issueCertificate(&enrollment)
}

// issueCertificate performs the completed transition: certificate number,
// status, completed_at in a single update, then the public verification
// record. The unique index on certificate_number plus a bounded retry closes
// the count-then-insert race between concurrent completions.
func (s *EnrollmentService) issueCertificate(enrollment *models.Enrollment) (string, error) {
	var course models.Course
	if err := s.db.First(&course, enrollment.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrCourseNotFound
		}
		return "", err
	}

	now := time.Now()
	var issued string

	for attempt := 0; attempt < certNumberMaxRetries; attempt++ {
		number, err := GenerateCertificateNumber(s.db, course.Category)
		if err != nil {
			return "", err
		}

		res := s.db.Model(&models.Enrollment{}).
			Where("id = ? AND status <> ?", enrollment.ID, models.EnrollmentStatusCompleted).
			Updates(map[string]interface{}{
				"status":             models.EnrollmentStatusCompleted,
				"completed_at":       now,
				"certificate_number": number,
			})
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				continue
			}
			return "", res.Error
		}
		if res.RowsAffected == 0 {
			// Another request completed this enrollment between our read and
			// write; hand back the number it issued.
			var current models.Enrollment
			if err := s.db.First(&current, enrollment.ID).Error; err != nil {
				return "", err
			}
			if current.CertificateNumber != nil {
				return *current.CertificateNumber, nil
			}
			return "", fmt.Errorf("enrollment %d completed without a certificate number", enrollment.ID)
		}

		issued = number
		break
	}
	if issued == "" {
		return "", fmt.Errorf("could not allocate a unique certificate number for enrollment %d", enrollment.ID)
	}

	s.createVerification(enrollment, &course, issued, now)

	return issued, nil
}

// createVerification writes the public-lookup record. Failure here must not
// undo an already issued certificate, so it only logs.
func (s *EnrollmentService) createVerification(enrollment *models.Enrollment, course *models.Course, number string, completedAt time.Time) {
	var user models.User
	if err := s.db.First(&user, enrollment.UserID).Error; err != nil {
		log.Printf("Verification record skipped, user %d not found: %v", enrollment.UserID, err)
		return
	}

	verification := models.CertificateVerification{
		Code:            GenerateVerificationCode(),
		EnrollmentID:    enrollment.ID,
		CertificateID:   course.CertificateID,
		UserName:        user.Name,
		CertificateName: course.Title,
		CompletionDate:  completedAt,
	}
	if err := s.db.Create(&verification).Error; err != nil {
		log.Printf("Failed to create certificate verification for %s: %v", number, err)
	}
}

// ownedEnrollment loads the enrollment and enforces ownership. Missing rows
// and foreign rows are distinct failures per the error contract.
func (s *EnrollmentService) ownedEnrollment(userID, enrollmentID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := s.db.First(&enrollment, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.UserID != userID {
		return nil, ErrNotOwner
	}
	return &enrollment, nil
}
