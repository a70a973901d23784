package service

import (
	"log"

	mail "github.com/go-mail/mail/v2"
)

// Mailer sends permission-request notification emails to admins over
// SMTP. A nil Mailer is valid and drops every message, so the server
// runs fine without SMTP configuration.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailer(host string, port int, user, pass, from string) *Mailer {
	if host == "" || from == "" {
		return nil
	}
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// Notify sends a plain-text message. Failures are logged, not returned:
// a broken SMTP relay must not fail the request that triggered the
// notification.
func (m *Mailer) Notify(to, subject, body string) {
	if m == nil || to == "" {
		return
	}
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := mail.NewDialer(m.host, m.port, m.user, m.pass)
	d.StartTLSPolicy = mail.OpportunisticStartTLS
	if err := d.DialAndSend(msg); err != nil {
		log.Printf("mailer: send to %s: %v", to, err)
	}
}
