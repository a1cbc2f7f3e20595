package mailer

import "github.com/nomavia/guestlink/pkg/logger"

// DevMailer logs emails instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (m *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("dev mailer: email not sent",
		"to", toEmail,
		"subject", subject,
		"text", text,
	)
	return "dev", nil
}

func (m *DevMailer) SendAlert(toEmail, code, author, message string) error {
	logger.Info("dev mailer: alert notification",
		"to", toEmail,
		"code", code,
		"author", author,
		"message", message,
	)
	return nil
}
