// services/alert_mailer.go
package services

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// AlertMailer emails the operators when the engine detects a condition
// that must not be silently absorbed (misconfigured rate tables, clamped
// platform remainders). Delivery failures are logged, never propagated.
type AlertMailer struct {
	dialer    *gomail.Dialer
	from      string
	recipient string
}

// NewAlertMailer builds the mailer from SMTP_* environment variables.
// With no recipient configured, alerts fall back to the process log only.
func NewAlertMailer() *AlertMailer {
	host := os.Getenv("SMTP_HOST")
	port := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	recipient := os.Getenv("OPERATOR_ALERT_EMAIL")

	mailer := &AlertMailer{
		from:      username,
		recipient: recipient,
	}
	if host != "" && recipient != "" {
		mailer.dialer = gomail.NewDialer(host, port, username, password)
	} else {
		log.Println("Operator alert mail not configured; alerts will only be logged")
	}
	return mailer
}

// Alert implements Alerter.
func (m *AlertMailer) Alert(subject, body string) {
	if m.dialer == nil {
		log.Printf("OPERATOR ALERT: %s: %s", subject, body)
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.recipient)
	msg.SetHeader("Subject", "[wealthloop] "+subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Printf("Failed to send operator alert %q: %v", subject, err)
	}
}
