package utils

import (
	"fmt"
	"log"

	"krpic_backend/config"
	"krpic_backend/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Generic Send Email
func SendEmail(to string, subject string, htmlBody string) error {
	if config.AppConfig.SendGridApiKey == "" {
		log.Printf("Email skipped (no SendGrid key): %s -> %s", subject, to)
		return nil
	}

	from := mail.NewEmail("한국심리교육원", config.AppConfig.EmailSender)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Printf("SendGrid rejected email (%d): %s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid: status %d", response.StatusCode)
	}
	return nil
}

// HTML Wrapper (shared institute look)
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Apple SD Gothic Neo', 'Malgun Gothic', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B3A6B; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #222222; line-height: 1.6; }
			.content h2 { color: #1B3A6B; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #1B3A6B; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #1B3A6B; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>한국심리교육원</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 한국심리교육원. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "한국심리교육원에 오신 것을 환영합니다"
	body := fmt.Sprintf(`
		<p>%s님, 안녕하세요.</p>
		<p><strong>한국심리교육원</strong> 회원가입이 완료되었습니다.</p>
		<p>지금 바로 원하는 과정을 둘러보고 수강을 시작해 보세요.</p>
		<a href="%s/courses" class="btn">과정 둘러보기</a>
	`, name, config.AppConfig.FrontendURL)

	go SendEmail(email, subject, getEmailTemplate("환영합니다!", body))
}

// 2. Payment / Enrollment Confirmation
func SendEnrollmentApprovedEmail(email, name, courseTitle string, amount int) {
	subject := "수강 신청 완료: " + courseTitle
	body := fmt.Sprintf(`
		<p>%s님, 안녕하세요.</p>
		<p><strong>%s</strong> 과정의 결제가 확인되어 수강이 승인되었습니다.</p>
		<div class="info-box">
			<strong>결제 금액:</strong> %s원
		</div>
		<p>내 강의실에서 바로 학습을 시작하실 수 있습니다.</p>
		<a href="%s/my/courses" class="btn">내 강의실 바로가기</a>
	`, name, courseTitle, formatKRW(amount), config.AppConfig.FrontendURL)

	go SendEmail(email, subject, getEmailTemplate("수강 신청이 완료되었습니다", body))
}

// 3. Virtual Account Issued
func SendVirtualAccountEmail(email, name, courseTitle, bankName, accountNumber, dueDate string, amount int) {
	subject := "입금 안내: " + courseTitle
	body := fmt.Sprintf(`
		<p>%s님, 안녕하세요.</p>
		<p><strong>%s</strong> 과정의 가상계좌가 발급되었습니다. 아래 계좌로 입금해 주세요.</p>
		<div class="info-box">
			<strong>은행:</strong> %s<br>
			<strong>계좌번호:</strong> %s<br>
			<strong>입금 금액:</strong> %s원<br>
			<strong>입금 기한:</strong> %s
		</div>
		<p>입금이 확인되면 수강이 자동으로 승인됩니다.</p>
	`, name, courseTitle, bankName, accountNumber, formatKRW(amount), dueDate)

	go SendEmail(email, subject, getEmailTemplate("가상계좌 입금 안내", body))
}

// 4. Certificate Issued
func SendCertificateEmail(email, name, courseTitle, certificateNumber string) {
	subject := "수료증 발급 완료: " + courseTitle
	body := fmt.Sprintf(`
		<p>%s님, 축하합니다!</p>
		<p><strong>%s</strong> 과정을 수료하셨습니다.</p>
		<div class="info-box">
			<strong>수료번호:</strong> %s
		</div>
		<p>내 강의실에서 수료증을 확인하고 다운로드할 수 있습니다.</p>
		<a href="%s/my/certificates" class="btn">수료증 확인하기</a>
	`, name, courseTitle, certificateNumber, config.AppConfig.FrontendURL)

	go SendEmail(email, subject, getEmailTemplate("수료를 축하드립니다", body))
}

// formatKRW renders an amount with thousands separators (1234567 -> "1,234,567")
func formatKRW(amount int) string {
	s := fmt.Sprintf("%d", amount)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

// Mailer implements the post-payment notification hook for the payment
// service. Failures are logged, never returned.
type Mailer struct{}

func (Mailer) EnrollmentApproved(user models.User, course models.Course, amount int) {
	SendEnrollmentApprovedEmail(user.Email, user.Name, course.Title, amount)
}
