package utils

import (
	"fmt"
	"net/smtp"
)

// Mailer delivers plain-text mail. The auth flows depend on this interface
// so tests can substitute a recording fake.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail over plain SMTP with AUTH PLAIN.
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// Send builds an RFC 822 message and submits it.
func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.Host == "" || m.Port == "" || m.User == "" || m.Pass == "" {
		return fmt.Errorf("smtp not configured")
	}

	from := m.From
	if from == "" {
		from = m.User
	}

	msg := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n"

	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, from, []string{to}, []byte(msg))
}
