package services

import (
	"fmt"
	"testing"
	"time"

	"krpic_backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway scripts the provider's confirm response.
type fakeGateway struct {
	result *PaymentResult
	err    error
	calls  int
}

func (f *fakeGateway) ConfirmPayment(paymentKey, orderID string, amount int) (*PaymentResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	result := *f.result
	result.PaymentKey = paymentKey
	result.OrderID = orderID
	if result.TotalAmount == 0 {
		result.TotalAmount = amount
	}
	return &result, nil
}

func TestConfirmPayment_CardSettlesImmediately(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "카드결제", "card@example.com")
	course := seedCourse(t, db, "심리상담 과정", "card-course", "counseling", 50000, 600)

	gateway := &fakeGateway{result: &PaymentResult{Status: "DONE", Method: "카드", TotalAmount: 50000}}
	svc := NewPaymentService(db, gateway, NewEnrollmentService(db), nil)

	result, err := svc.ConfirmPayment(user.ID, course.ID, "pay_abc", "order_1", 50000)
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.calls)
	assert.Equal(t, models.EnrollmentStatusApproved, result.Status)
	assert.Equal(t, models.PaymentStatusPaid, result.PaymentStatus)
	assert.Nil(t, result.VirtualAccount)

	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, result.EnrollmentID).Error)
	assert.Equal(t, models.EnrollmentStatusApproved, enrollment.Status)
	assert.Equal(t, "pay_abc", enrollment.PaymentKey)
	assert.Equal(t, "order_1", enrollment.OrderID)
	assert.Equal(t, 50000, enrollment.PaymentAmount)
}

func TestConfirmPayment_VirtualAccountStaysPending(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "가상계좌", "va@example.com")
	course := seedCourse(t, db, "미술치료 과정", "va-course", "art-therapy", 80000, 1200)

	gateway := &fakeGateway{result: &PaymentResult{
		Status:      "WAITING_FOR_DEPOSIT",
		Method:      "가상계좌",
		TotalAmount: 80000,
		VirtualAccount: &VirtualAccountInfo{
			BankCode:      "088",
			AccountNumber: "56211234567890",
			CustomerName:  "가상계좌",
			DueDate:       "2026-09-06T23:59:59",
		},
	}}
	svc := NewPaymentService(db, gateway, NewEnrollmentService(db), nil)

	result, err := svc.ConfirmPayment(user.ID, course.ID, "pay_va_1", "order_va_1", 80000)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusPendingPayment, result.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, result.PaymentStatus)
	require.NotNil(t, result.VirtualAccount)
	assert.Equal(t, "신한은행", result.VirtualAccount.BankName) // bank code 088 mapped
	assert.Equal(t, "56211234567890", result.VirtualAccount.AccountNumber)

	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, result.EnrollmentID).Error)
	assert.Equal(t, models.EnrollmentStatusPendingPayment, enrollment.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, enrollment.PaymentStatus)
	assert.Equal(t, "pay_va_1", enrollment.PaymentKey)
	assert.Equal(t, "신한은행", enrollment.VABankName)
	require.NotNil(t, enrollment.VADueDate)
}

func TestConfirmPayment_ProviderRejectionCreatesNothing(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "거절됨", "rejected@example.com")
	course := seedCourse(t, db, "코칭 과정", "rejected-course", "coaching", 40000, 600)

	gateway := &fakeGateway{err: &PaymentError{StatusCode: 400, Code: "INVALID_CARD", Message: "유효하지 않은 카드입니다."}}
	svc := NewPaymentService(db, gateway, NewEnrollmentService(db), nil)

	_, err := svc.ConfirmPayment(user.ID, course.ID, "pay_bad", "order_bad", 40000)
	var payErr *PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, 400, payErr.StatusCode)
	assert.Equal(t, "유효하지 않은 카드입니다.", payErr.Message)

	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestConfirmPayment_CourseNotFoundSkipsProvider(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "없는과정", "nocourse@example.com")

	gateway := &fakeGateway{result: &PaymentResult{Status: "DONE", Method: "카드"}}
	svc := NewPaymentService(db, gateway, NewEnrollmentService(db), nil)

	_, err := svc.ConfirmPayment(user.ID, 999, "pay_x", "order_x", 10000)
	assert.ErrorIs(t, err, ErrCourseNotFound)
	assert.Equal(t, 0, gateway.calls)
}

func settleEvent(paymentKey, status string) WebhookEvent {
	return WebhookEvent{
		EventType: WebhookEventPaymentStatusChanged,
		CreatedAt: time.Now().Format(time.RFC3339),
		Data:      WebhookPaymentData{PaymentKey: paymentKey, Status: status},
	}
}

func TestHandleWebhook_SettlementIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "입금대기", "deposit@example.com")
	course := seedCourse(t, db, "복지 과정", "deposit-course", "welfare", 50000, 600)

	enrollment := models.Enrollment{
		UserID:        user.ID,
		CourseID:      course.ID,
		Status:        models.EnrollmentStatusPendingPayment,
		PaymentStatus: models.PaymentStatusUnpaid,
		PaymentAmount: 50000,
		PaymentKey:    "pay_settle",
	}
	require.NoError(t, db.Create(&enrollment).Error)

	svc := NewPaymentService(db, &fakeGateway{}, NewEnrollmentService(db), nil)

	// Delivered twice: the transition happens exactly once, both return success.
	require.NoError(t, svc.HandleWebhook(settleEvent("pay_settle", ProviderStatusDone), []byte(`{}`)))
	require.NoError(t, svc.HandleWebhook(settleEvent("pay_settle", ProviderStatusDone), []byte(`{}`)))

	var updated models.Enrollment
	require.NoError(t, db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentStatusApproved, updated.Status)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

	// Both deliveries are audited.
	var audited int64
	require.NoError(t, db.Model(&models.PaymentWebhookEvent{}).
		Where("payment_key = ?", "pay_settle").Count(&audited).Error)
	assert.Equal(t, int64(2), audited)
}

func TestHandleWebhook_UnknownPaymentKeyIsSuccess(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db, &fakeGateway{}, NewEnrollmentService(db), nil)

	assert.NoError(t, svc.HandleWebhook(settleEvent("pay_unknown", ProviderStatusDone), []byte(`{}`)))
}

func TestHandleWebhook_CancelDeletesReservation(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "취소됨", "cancel@example.com")
	course := seedCourse(t, db, "상담 과정", "cancel-course", "counseling", 50000, 600)

	enrollment := models.Enrollment{
		UserID:        user.ID,
		CourseID:      course.ID,
		Status:        models.EnrollmentStatusPendingPayment,
		PaymentStatus: models.PaymentStatusUnpaid,
		PaymentKey:    "pay_cancel",
	}
	require.NoError(t, db.Create(&enrollment).Error)

	svc := NewPaymentService(db, &fakeGateway{}, NewEnrollmentService(db), nil)
	require.NoError(t, svc.HandleWebhook(settleEvent("pay_cancel", ProviderStatusCanceled), []byte(`{}`)))

	// The reservation leaves no row behind, not even soft-deleted.
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Enrollment{}).
		Where("payment_key = ?", "pay_cancel").Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// A late settlement for the same key is a no-op success.
	require.NoError(t, svc.HandleWebhook(settleEvent("pay_cancel", ProviderStatusDone), []byte(`{}`)))
	require.NoError(t, db.Unscoped().Model(&models.Enrollment{}).
		Where("payment_key = ?", "pay_cancel").Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestHandleWebhook_InformationalAndUnknownEvents(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db, &fakeGateway{}, NewEnrollmentService(db), nil)

	assert.NoError(t, svc.HandleWebhook(WebhookEvent{
		EventType: WebhookEventVirtualAccountIssued,
		Data:      WebhookPaymentData{PaymentKey: "pay_info"},
	}, []byte(`{}`)))

	assert.NoError(t, svc.HandleWebhook(WebhookEvent{
		EventType: "CARD_COMPANY_MAINTENANCE",
	}, []byte(`{}`)))

	assert.NoError(t, svc.HandleWebhook(settleEvent("pay_waiting", "WAITING_FOR_DEPOSIT"), []byte(`{}`)))
}

// Full virtual-account journey: checkout -> deposit webhook -> watch -> certificate.
func TestVirtualAccountFlow_EndToEnd(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "전체흐름", "full@example.com")
	course := seedCourse(t, db, "특수 과정", "full-course", "special-lecture", 50000, 600)

	gateway := &fakeGateway{result: &PaymentResult{
		Status:      "WAITING_FOR_DEPOSIT",
		Method:      "가상계좌",
		TotalAmount: 50000,
		VirtualAccount: &VirtualAccountInfo{
			BankCode:      "004",
			AccountNumber: "12345678901234",
			CustomerName:  "전체흐름",
			DueDate:       "2026-09-06T23:59:59",
		},
	}}
	enrollments := NewEnrollmentService(db)
	payments := NewPaymentService(db, gateway, enrollments, nil)

	result, err := payments.ConfirmPayment(user.ID, course.ID, "pay_full", "order_full", 50000)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusPendingPayment, result.Status)
	assert.Equal(t, 50000, result.Amount)

	require.NoError(t, payments.HandleWebhook(settleEvent("pay_full", ProviderStatusDone), []byte(`{}`)))

	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, result.EnrollmentID).Error)
	assert.Equal(t, models.EnrollmentStatusApproved, enrollment.Status)
	assert.Equal(t, models.PaymentStatusPaid, enrollment.PaymentStatus)

	// Watch to 99% of the 600-second video.
	require.NoError(t, enrollments.RecordProgress(user.ID, enrollment.ID, 594, 594, 600))

	number, err := enrollments.CompleteIfEligible(user.ID, enrollment.ID)
	require.NoError(t, err)
	// Unmapped category falls back to the EDU code.
	assert.Regexp(t, fmt.Sprintf(`^KRPIC-%d-EDU-\d{5}$`, time.Now().Year()), number)
}
