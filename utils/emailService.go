package utils

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional emails through SendGrid. All sends are
// fire-and-forget: a failed send is logged and never propagated to the
// caller.
type Mailer struct {
	client   *sendgrid.Client
	fromAddr string
	fromName string
}

func NewMailer(apiKey, fromAddr, fromName string) *Mailer {
	return &Mailer{
		client:   sendgrid.NewSendClient(apiKey),
		fromAddr: fromAddr,
		fromName: fromName,
	}
}

// sendEmail dispatches a single HTML email in the background
func (m *Mailer) sendEmail(toAddr, toName, subject, htmlBody string) {
	go func() {
		from := mail.NewEmail(m.fromName, m.fromAddr)
		to := mail.NewEmail(toName, toAddr)
		message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

		resp, err := m.client.Send(message)
		if err != nil {
			log.Printf("Error sending email to %s: %v", toAddr, err)
			return
		}
		if resp.StatusCode >= 400 {
			log.Printf("Email to %s rejected: %d %s", toAddr, resp.StatusCode, resp.Body)
		}
	}()
}

// HTML wrapper shared by all notification emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.content h2 { color: #00004D; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #d7b56d; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d7b56d; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>COURSE PLATFORM</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Course Platform. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Registration
func (m *Mailer) SendWelcomeEmail(email, name string) {
	subject := "Welcome to Course Platform"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome aboard! Your account has been successfully created.</p>
		<p>You can now browse our courses and start learning right away.</p>
		<p>If you have any questions, feel free to reach out to our support team.</p>
	`, name)

	m.sendEmail(email, name, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Enrollment Confirmation
func (m *Mailer) SendEnrollmentConfirmation(email, name, courseTitle string) {
	subject := "Enrollment Confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Head to your dashboard and start with the first milestone.
		</div>
		<a href="#" class="btn">Start Learning</a>
	`, name, courseTitle)

	m.sendEmail(email, name, subject, getEmailTemplate("Enrollment Successful", body))
}
