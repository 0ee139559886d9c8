package utils

import (
	"fmt"
	"log"

	"planetpath/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML email through SendGrid. Without an API key the
// email is only logged.
func SendEmail(toName, toEmail, subject, htmlBody string) error {
	cfg := config.AppConfig
	if cfg == nil || cfg.SendgridAPIKey == "" {
		log.Printf("[EMAIL] (not sent) to=%s subject=%q", toEmail, subject)
		return nil
	}

	from := mail.NewEmail("Planet Path", cfg.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	response, err := sendgrid.NewSendClient(cfg.SendgridAPIKey).Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending email to %s: %v", toEmail, err)
		return err
	}
	if response.StatusCode >= 300 {
		log.Printf("[EMAIL] SendGrid rejected email to %s: %d %s", toEmail, response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid status %d", response.StatusCode)
	}

	log.Printf("[EMAIL] Sent %q to %s", subject, toEmail)
	return nil
}

// SendEnrollmentEmail sends an email notification when user enrolls in a course
func SendEnrollmentEmail(email, userName, courseName string) error {
	body := getEmailTemplate("Enrollment Successful!", fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>Head over to your dashboard to see the assignments and start your first project.</p>`,
		userName, courseName))

	return SendEmail(userName, email, "Course Enrollment Confirmation - Planet Path", body)
}

// SendSubmissionEmail confirms that a project submission was received
func SendSubmissionEmail(email, userName, courseName, assignmentTitle string) error {
	body := getEmailTemplate("Project Received", fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We received your project for <strong>%s</strong> in %s.</p>
		<p>Keep it up! Every project brings you closer to completing the course.</p>`,
		userName, assignmentTitle, courseName))

	return SendEmail(userName, email, "Project Submission Received - Planet Path", body)
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B5E20; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #1B3A1D; line-height: 1.6; }
			.info-box { background: #E8F5E9; padding: 15px; border-radius: 4px; border-left: 4px solid #66BB6A; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
			<div class="footer">Planet Path Team</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}
