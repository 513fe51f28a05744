package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type EmailMessage struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// EmailSender abstracts delivery so tests can capture messages instead
// of dialing SMTP.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type SMTPClient struct {
	addr string
	host string
	auth smtp.Auth
}

func NewSMTPClient(host string, port int, username, password string) *SMTPClient {
	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPClient{
		addr: fmt.Sprintf("%s:%d", host, port),
		host: host,
		auth: auth,
	}
}

func (c *SMTPClient) Send(ctx context.Context, msg EmailMessage) error {
	return smtp.SendMail(c.addr, c.auth, msg.From, msg.To, []byte(buildEmailData(msg)))
}

// NoopSender is used when the mailer is disabled in config.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, msg EmailMessage) error {
	return nil
}

func buildEmailData(msg EmailMessage) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ",")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	return b.String()
}
