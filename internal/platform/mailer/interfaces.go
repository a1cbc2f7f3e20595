package mailer

type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendAlert(toEmail, code, author, message string) error
}
