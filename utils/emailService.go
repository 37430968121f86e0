package utils

import (
	"fmt"
	"html"

	"courseplatform/config"
	"courseplatform/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers one HTML email through SendGrid. Without an API key the
// message is logged and dropped.
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	cfg := config.AppConfig
	if cfg == nil || cfg.SendgridAPIKey == "" {
		logger.Log.Debug("email skipped, SENDGRID_API_KEY not set", "to", toEmail, "subject", subject)
		return nil
	}

	from := mail.NewEmail(cfg.EmailFromName, cfg.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	resp, err := sendgrid.NewSendClient(cfg.SendgridAPIKey).Send(message)
	if err != nil {
		logger.Log.Error("Error sending email", "to", toEmail, "subject", subject, "error", err)
		return err
	}
	if resp.StatusCode >= 300 {
		logger.Log.Error("SendGrid rejected email", "to", toEmail, "status", resp.StatusCode, "body", resp.Body)
		return fmt.Errorf("sendgrid status %d", resp.StatusCode)
	}
	logger.Log.Info("Email sent", "to", toEmail, "subject", subject)
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1D3557; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #1D3557; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">You receive this email because you have an account on %s.</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(config.AppConfig.EmailFromName), html.EscapeString(title), bodyContent, html.EscapeString(config.AppConfig.EmailFromName))
}

func sendAsync(toEmail, toName, subject, title, body string) {
	if config.AppConfig == nil || config.AppConfig.SendgridAPIKey == "" {
		return
	}
	msg := getEmailTemplate(title, body)
	go func() {
		_ = SendEmail(toEmail, toName, subject, msg)
	}()
}

// SendWelcomeEmail greets a user after signup.
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`<p>Dear %s,</p><p>Your account has been created. You can now browse courses and enroll.</p>`,
		html.EscapeString(name))
	sendAsync(email, name, "Welcome", "Welcome Onboard!", body)
}

// SendEnrollmentEmail confirms an enrollment to the student.
func SendEnrollmentEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`<p>Dear %s,</p><p>You are now enrolled in <strong>%s</strong>.</p>`,
		html.EscapeString(name), html.EscapeString(courseTitle))
	sendAsync(email, name, "Enrolled: "+courseTitle, "Enrollment Confirmed", body)
}

// SendTeacherAddedEmail tells a user they may now teach a course.
func SendTeacherAddedEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`<p>Dear %s,</p><p>You were added as a teacher of <strong>%s</strong>.</p>`,
		html.EscapeString(name), html.EscapeString(courseTitle))
	sendAsync(email, name, "Teaching: "+courseTitle, "New Teaching Role", body)
}

// SendEnrollmentOpenedEmail tells the owner that enrollment opened on schedule.
func SendEnrollmentOpenedEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`<p>Dear %s,</p><p>Enrollment for <strong>%s</strong> opened today.</p>`,
		html.EscapeString(name), html.EscapeString(courseTitle))
	sendAsync(email, name, "Enrollment open: "+courseTitle, "Enrollment Opened", body)
}
