package services

import (
	"errors"
	"log"
	"time"

	"krpic_backend/models"

	"gorm.io/gorm"
)

// EnrollmentNotifier sends the post-enrollment notification (email). Calls are
// best-effort: implementations log failures, callers never see them.
type EnrollmentNotifier interface {
	EnrollmentApproved(user models.User, course models.Course, amount int)
}

// PaymentService bridges the payment provider to enrollment state: the
// synchronous confirm call at checkout and the asynchronous webhook-driven
// settlement of virtual-account deposits.
type PaymentService struct {
	db          *gorm.DB
	gateway     PaymentGateway
	enrollments *EnrollmentService
	notifier    EnrollmentNotifier // optional
}

func NewPaymentService(db *gorm.DB, gateway PaymentGateway, enrollments *EnrollmentService, notifier EnrollmentNotifier) *PaymentService {
	return &PaymentService{db: db, gateway: gateway, enrollments: enrollments, notifier: notifier}
}

// ConfirmationResult is what checkout needs back: the enrollment state, and
// for virtual accounts the deposit details to display.
type ConfirmationResult struct {
	EnrollmentID   uint                   `json:"enrollment_id"`
	Status         string                 `json:"status"`
	PaymentStatus  string                 `json:"payment_status"`
	Method         string                 `json:"method"`
	Amount         int                    `json:"amount"`
	VirtualAccount *VirtualAccountDisplay `json:"virtual_account,omitempty"`
}

type VirtualAccountDisplay struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	CustomerName  string `json:"customer_name"`
	DueDate       string `json:"due_date"`
}

// ConfirmPayment confirms the provider transaction and creates or updates the
// enrollment accordingly. Card-class methods settle immediately and the
// enrollment goes straight to approved/paid; virtual accounts leave it in
// pending_payment until the deposit webhook arrives. A provider rejection is
// propagated as *PaymentError and no enrollment is touched.
func (s *PaymentService) ConfirmPayment(userID, courseID uint, paymentKey, orderID string, amount int) (*ConfirmationResult, error) {
	var course models.Course
	if err := s.db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	payment, err := s.gateway.ConfirmPayment(paymentKey, orderID, amount)
	if err != nil {
		return nil, err
	}

	paidAmount := payment.TotalAmount
	if paidAmount <= 0 {
		paidAmount = amount
	}

	if payment.IsVirtualAccount() {
		enrollment, err := s.reserveVirtualAccount(userID, course.ID, payment, paidAmount)
		if err != nil {
			return nil, err
		}

		result := &ConfirmationResult{
			EnrollmentID:  enrollment.ID,
			Status:        enrollment.Status,
			PaymentStatus: enrollment.PaymentStatus,
			Method:        payment.Method,
			Amount:        enrollment.PaymentAmount,
		}
		if va := payment.VirtualAccount; va != nil {
			result.VirtualAccount = &VirtualAccountDisplay{
				BankName:      BankDisplayName(va.BankCode),
				AccountNumber: va.AccountNumber,
				CustomerName:  va.CustomerName,
				DueDate:       va.DueDate,
			}
		}
		return result, nil
	}

	enrollmentID, err := s.enrollments.CreateOrReuseEnrollment(userID, course.ID, paidAmount)
	if err != nil {
		return nil, err
	}

	// Correlation fields for later webhook lookups and admin tooling.
	if err := s.db.Model(&models.Enrollment{}).Where("id = ?", enrollmentID).
		Updates(map[string]interface{}{"payment_key": paymentKey, "order_id": orderID}).Error; err != nil {
		log.Printf("Failed to store payment key on enrollment %d: %v", enrollmentID, err)
	}

	s.notifyApproved(userID, course, paidAmount)

	return &ConfirmationResult{
		EnrollmentID:  enrollmentID,
		Status:        models.EnrollmentStatusApproved,
		PaymentStatus: models.PaymentStatusPaid,
		Method:        payment.Method,
		Amount:        paidAmount,
	}, nil
}

// reserveVirtualAccount creates (or repoints) the enrollment in its
// awaiting-funds limbo state. An already approved or completed row is never
// downgraded by a duplicate confirm call.
func (s *PaymentService) reserveVirtualAccount(userID, courseID uint, payment *PaymentResult, amount int) (*models.Enrollment, error) {
	fields := map[string]interface{}{
		"status":         models.EnrollmentStatusPendingPayment,
		"payment_status": models.PaymentStatusUnpaid,
		"payment_amount": amount,
		"payment_key":    payment.PaymentKey,
		"order_id":       payment.OrderID,
	}
	if va := payment.VirtualAccount; va != nil {
		fields["va_bank_name"] = BankDisplayName(va.BankCode)
		fields["va_account_number"] = va.AccountNumber
		fields["va_customer_name"] = va.CustomerName
		if due := parseProviderTime(va.DueDate); due != nil {
			fields["va_due_date"] = due
		}
	}

	var enrollment models.Enrollment
	err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err == nil {
		if enrollment.Status == models.EnrollmentStatusApproved || enrollment.Status == models.EnrollmentStatusCompleted {
			return &enrollment, nil
		}
		if err := s.db.Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).Updates(fields).Error; err != nil {
			return nil, err
		}
		return s.reload(enrollment.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment = models.Enrollment{
		UserID:        userID,
		CourseID:      courseID,
		Status:        models.EnrollmentStatusPendingPayment,
		PaymentStatus: models.PaymentStatusUnpaid,
		PaymentAmount: amount,
		PaymentKey:    payment.PaymentKey,
		OrderID:       payment.OrderID,
	}
	if va := payment.VirtualAccount; va != nil {
		enrollment.VABankName = BankDisplayName(va.BankCode)
		enrollment.VAAccountNumber = va.AccountNumber
		enrollment.VACustomerName = va.CustomerName
		enrollment.VADueDate = parseProviderTime(va.DueDate)
	}
	if err := s.db.Create(&enrollment).Error; err != nil {
		if isUniqueViolation(err) {
			if ferr := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; ferr != nil {
				return nil, ferr
			}
			return &enrollment, nil
		}
		return nil, err
	}
	return &enrollment, nil
}

// HandleWebhook processes one provider push. The provider retries non-2xx
// responses indefinitely, so the contract is strict: a missing or already
// handled enrollment is success, and only genuine store failures return an
// error. Every delivery is recorded for audit before processing.
func (s *PaymentService) HandleWebhook(event WebhookEvent, rawPayload []byte) error {
	audit := models.PaymentWebhookEvent{
		EventType:     event.EventType,
		PaymentKey:    event.Data.PaymentKey,
		OrderID:       event.Data.OrderID,
		PaymentStatus: event.Data.Status,
		PayloadRaw:    string(rawPayload),
	}
	if err := s.db.Create(&audit).Error; err != nil {
		log.Printf("Failed to record webhook event %s: %v", event.EventType, err)
	}

	err := s.processWebhook(event)

	now := time.Now()
	updates := map[string]interface{}{"processed_at": now}
	if err != nil {
		updates["processing_error"] = err.Error()
	}
	if audit.ID != 0 {
		if uerr := s.db.Model(&models.PaymentWebhookEvent{}).Where("id = ?", audit.ID).Updates(updates).Error; uerr != nil {
			log.Printf("Failed to update webhook audit row %d: %v", audit.ID, uerr)
		}
	}

	return err
}

func (s *PaymentService) processWebhook(event WebhookEvent) error {
	switch event.EventType {
	case WebhookEventPaymentStatusChanged:
		return s.handleStatusChange(event.Data)
	case WebhookEventVirtualAccountIssued:
		// Informational: the account details were already stored at confirm time.
		log.Printf("Virtual account issued for payment %s", event.Data.PaymentKey)
		return nil
	default:
		log.Printf("Ignoring webhook event type %s", event.EventType)
		return nil
	}
}

func (s *PaymentService) handleStatusChange(data WebhookPaymentData) error {
	switch data.Status {
	case ProviderStatusDone:
		return s.settleDeposit(data.PaymentKey)
	case ProviderStatusCanceled, ProviderStatusExpired, ProviderStatusAborted:
		return s.releaseReservation(data.PaymentKey, data.Status)
	default:
		log.Printf("Ignoring payment status %s for %s", data.Status, data.PaymentKey)
		return nil
	}
}

// settleDeposit moves the matching awaiting-funds enrollment to approved/paid.
// No matching row means the event is a duplicate or irrelevant, which is
// success by contract.
func (s *PaymentService) settleDeposit(paymentKey string) error {
	res := s.db.Model(&models.Enrollment{}).
		Where("payment_key = ? AND status = ?", paymentKey, models.EnrollmentStatusPendingPayment).
		Updates(map[string]interface{}{
			"status":         models.EnrollmentStatusApproved,
			"payment_status": models.PaymentStatusPaid,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("No pending enrollment for payment %s, treating as already processed", paymentKey)
		return nil
	}

	var enrollment models.Enrollment
	if err := s.db.Where("payment_key = ?", paymentKey).First(&enrollment).Error; err == nil {
		var course models.Course
		if cerr := s.db.First(&course, enrollment.CourseID).Error; cerr == nil {
			s.notifyApproved(enrollment.UserID, course, enrollment.PaymentAmount)
		}
	}
	return nil
}

// releaseReservation removes the never-settled reservation so the learner can
// check out again. Hard delete: a soft-deleted row would keep occupying the
// (user_id, course_id) unique index.
func (s *PaymentService) releaseReservation(paymentKey, status string) error {
	res := s.db.Unscoped().
		Where("payment_key = ? AND status = ?", paymentKey, models.EnrollmentStatusPendingPayment).
		Delete(&models.Enrollment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("No pending enrollment to release for payment %s (%s)", paymentKey, status)
	}
	return nil
}

func (s *PaymentService) notifyApproved(userID uint, course models.Course, amount int) {
	if s.notifier == nil {
		return
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		log.Printf("Skipping enrollment notification, user %d not found: %v", userID, err)
		return
	}
	// Best effort: the confirmation result never depends on the email.
	go s.notifier.EnrollmentApproved(user, course, amount)
}

func (s *PaymentService) reload(enrollmentID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := s.db.First(&enrollment, enrollmentID).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// parseProviderTime accepts the provider's timestamp formats (RFC3339 with
// offset, or a bare local datetime for virtual-account due dates).
func parseProviderTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	log.Printf("Unparseable provider timestamp %q", value)
	return nil
}
