package utils

import (
	"fmt"
	"html"
	"time"

	"internlab/config"
	"internlab/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailContent is a rendered message
type EmailContent struct {
	Subject string
	Text    string // plain-text fallback
	HTML    string
}

// SendEmail delivers one message through SendGrid. Without an API key the message is only logged.
func SendEmail(toEmail, toName string, content EmailContent) error {
	cfg := config.AppConfig
	if cfg.SendgridAPIKey == "" {
		logger.Log.Debug("email delivery disabled, skipping", "to", toEmail, "subject", content.Subject)
		return nil
	}

	resp, err := sendgrid.NewSendClient(cfg.SendgridAPIKey).Send(buildMessage(toEmail, toName, content))
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send email: sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}
	logger.Log.Info("email sent", "to", toEmail, "subject", content.Subject)
	return nil
}

// SendEmailAsync sends in the background and logs failures
func SendEmailAsync(toEmail, toName string, content EmailContent) {
	go func() {
		if err := SendEmail(toEmail, toName, content); err != nil {
			logger.Log.Error("email failed", "to", toEmail, "subject", content.Subject, "error", err)
		}
	}()
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1E3A8A; padding: 24px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
			.content { padding: 32px 28px; color: #1F2937; line-height: 1.6; }
			.info-box { background: #EEF2FF; padding: 15px; border-radius: 4px; border-left: 4px solid #1E3A8A; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 16px; text-align: center; font-size: 12px; color: #6B7280; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>INTERNLAB</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">This is an automated message from InternLab.</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(title), bodyContent)
}

func buildMessage(toEmail, toName string, content EmailContent) *mail.SGMailV3 {
	from := mail.NewEmail(config.AppConfig.EmailSenderName, config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	text := content.Text
	if text == "" {
		text = content.Subject
	}
	return mail.NewSingleEmail(from, content.Subject, to, text, content.HTML)
}

// --- Templates ---

func WelcomeEmail(name string) EmailContent {
	body := fmt.Sprintf(`<p>Hi %s,</p><p>Your InternLab account is ready. Use the invite code from your program coordinator to join a program.</p>`,
		html.EscapeString(name))
	text := fmt.Sprintf("Hi %s,\n\nYour InternLab account is ready. Use the invite code from your program coordinator to join a program.",
		name)
	return EmailContent{
		Subject: "Welcome to InternLab",
		Text:    text,
		HTML:    getEmailTemplate("Welcome aboard", body),
	}
}

func EnrollmentEmail(name, programTitle string, expiresAt time.Time) EmailContent {
	body := fmt.Sprintf(`<p>Hi %s,</p><p>You are now enrolled in:</p><div class="info-box"><strong>%s</strong><br>Access until %s</div><p>Your tasks are waiting on your dashboard.</p>`,
		html.EscapeString(name), html.EscapeString(programTitle), expiresAt.Format("January 2, 2006"))
	text := fmt.Sprintf("Hi %s,\n\nYou are now enrolled in %s. Access until %s.\nYour tasks are waiting on your dashboard.",
		name, programTitle, expiresAt.Format("January 2, 2006"))
	return EmailContent{
		Subject: "Enrollment confirmed: " + programTitle,
		Text:    text,
		HTML:    getEmailTemplate("Enrollment confirmed", body),
	}
}

func CompletionEmail(name, programTitle string) EmailContent {
	body := fmt.Sprintf(`<p>Hi %s,</p><p>Congratulations! You completed every task in <strong>%s</strong>. You can now generate your certificate from the dashboard.</p>`,
		html.EscapeString(name), html.EscapeString(programTitle))
	text := fmt.Sprintf("Hi %s,\n\nCongratulations! You completed every task in %s. You can now generate your certificate from the dashboard.",
		name, programTitle)
	return EmailContent{
		Subject: "Program completed: " + programTitle,
		Text:    text,
		HTML:    getEmailTemplate("Program completed", body),
	}
}

func ExpiryReminderEmail(name, programTitle string, expiresAt time.Time) EmailContent {
	body := fmt.Sprintf(`<p>Hi %s,</p><p>Your enrollment in <strong>%s</strong> ends on <strong>%s</strong>.</p><p>Finish your remaining tasks or ask an admin for an extension.</p>`,
		html.EscapeString(name), html.EscapeString(programTitle), expiresAt.Format("January 2, 2006"))
	text := fmt.Sprintf("Hi %s,\n\nYour enrollment in %s ends on %s.\nFinish your remaining tasks or ask an admin for an extension.",
		name, programTitle, expiresAt.Format("January 2, 2006"))
	return EmailContent{
		Subject: "Your internship ends soon",
		Text:    text,
		HTML:    getEmailTemplate("Enrollment ending soon", body),
	}
}
