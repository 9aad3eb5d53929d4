package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Sender delivers a single outbound email. Workflows treat a send
// failure as a hard failure of the enclosing operation.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail over plain SMTP with STARTTLS auth
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

var smtpSendMail = smtp.SendMail

// NewSMTPMailer creates an SMTP-backed sender
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers the message, blocking until the SMTP exchange finishes
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtpSendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
