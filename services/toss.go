package services

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// PaymentGateway is the port to the payment provider. Tests substitute a fake.
type PaymentGateway interface {
	ConfirmPayment(paymentKey, orderID string, amount int) (*PaymentResult, error)
}

// PaymentResult is the provider's payment object after a successful confirm.
type PaymentResult struct {
	PaymentKey     string              `json:"paymentKey"`
	OrderID        string              `json:"orderId"`
	Status         string              `json:"status"`
	Method         string              `json:"method"`
	TotalAmount    int                 `json:"totalAmount"`
	ApprovedAt     string              `json:"approvedAt"`
	VirtualAccount *VirtualAccountInfo `json:"virtualAccount"`
}

// VirtualAccountInfo is the deposit destination issued for a virtual-account
// payment. Settlement arrives later via webhook.
type VirtualAccountInfo struct {
	BankCode      string `json:"bankCode"`
	AccountNumber string `json:"accountNumber"`
	CustomerName  string `json:"customerName"`
	DueDate       string `json:"dueDate"`
}

// IsVirtualAccount reports whether the payment settles asynchronously by bank
// transfer. The provider reports the method name in Korean.
func (p *PaymentResult) IsVirtualAccount() bool {
	return p.VirtualAccount != nil || p.Method == "가상계좌" || p.Method == "VIRTUAL_ACCOUNT"
}

// WebhookEvent is the provider's asynchronous payment-state push.
type WebhookEvent struct {
	EventType string             `json:"eventType"`
	CreatedAt string             `json:"createdAt"`
	Data      WebhookPaymentData `json:"data"`
}

type WebhookPaymentData struct {
	PaymentKey  string `json:"paymentKey"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	Method      string `json:"method"`
	TotalAmount int    `json:"totalAmount"`
}

// Webhook event types and payment statuses used by the reconciliation handler.
const (
	WebhookEventPaymentStatusChanged = "PAYMENT_STATUS_CHANGED"
	WebhookEventVirtualAccountIssued = "VIRTUAL_ACCOUNT_ISSUED"

	ProviderStatusDone     = "DONE"
	ProviderStatusCanceled = "CANCELED"
	ProviderStatusExpired  = "EXPIRED"
	ProviderStatusAborted  = "ABORTED"
)

// TossClient calls the payment provider's REST API.
type TossClient struct {
	client    *resty.Client
	secretKey string
}

// NewTossClient builds a provider client. Auth is HTTP Basic with the secret
// key as username and an empty password.
func NewTossClient(baseURL, secretKey string) *TossClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)

	return &TossClient{client: client, secretKey: secretKey}
}

type tossErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConfirmPayment confirms a payment server-side with the three correlation
// fields. A provider rejection comes back as *PaymentError.
func (t *TossClient) ConfirmPayment(paymentKey, orderID string, amount int) (*PaymentResult, error) {
	var result PaymentResult
	var apiErr tossErrorBody

	resp, err := t.client.R().
		SetBasicAuth(t.secretKey, "").
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"paymentKey": paymentKey,
			"orderId":    orderID,
			"amount":     amount,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1/payments/confirm")
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, &PaymentError{
			StatusCode: resp.StatusCode(),
			Code:       apiErr.Code,
			Message:    apiErr.Message,
		}
	}

	return &result, nil
}

// bankNames maps provider bank codes to display names shown alongside the
// virtual account number.
var bankNames = map[string]string{
	"002": "KDB산업은행",
	"003": "IBK기업은행",
	"004": "KB국민은행",
	"007": "수협은행",
	"011": "NH농협은행",
	"020": "우리은행",
	"023": "SC제일은행",
	"027": "씨티은행",
	"031": "대구은행",
	"032": "부산은행",
	"039": "경남은행",
	"045": "새마을금고",
	"071": "우체국",
	"081": "하나은행",
	"088": "신한은행",
	"089": "케이뱅크",
	"090": "카카오뱅크",
	"092": "토스뱅크",
}

// BankDisplayName resolves a provider bank code; unknown codes fall back to
// the raw code so the account is still displayable.
func BankDisplayName(code string) string {
	if name, ok := bankNames[code]; ok {
		return name
	}
	return code
}
