// Package mailer delivers the rendered digest over SMTP. Delivery is a
// collaborator, not part of the pipeline: a failed send is reported and
// the run still counts as producing its digest.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"cyberbrief/internal/config"
	"cyberbrief/internal/logger"
	"cyberbrief/internal/retry"
)

// Send mails the digest to every configured recipient, retrying
// transient failures with backoff.
func Send(ctx context.Context, email config.Email, subject, body string, rc retry.Config) error {
	if !email.Configured() {
		return fmt.Errorf("mailer: delivery not configured")
	}

	msg := buildMessage(email, subject, body)
	addr := fmt.Sprintf("%s:%d", email.SMTPHost, email.SMTPPort)
	auth := smtp.PlainAuth("", email.Username, email.Password, email.SMTPHost)

	err := retry.Do(ctx, rc, func() error {
		if err := smtp.SendMail(addr, auth, email.From, email.To, msg); err != nil {
			logger.Warn("smtp send failed", "err", err)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}

	logger.Info("newsletter delivered", "recipients", len(email.To))
	return nil
}

func buildMessage(email config.Email, subject, body string) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", email.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(email.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return []byte(b.String())
}
