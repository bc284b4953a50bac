// Package mail sends the few transactional emails DevPalette needs (password
// reset codes). SMTP settings come from the environment; without them a
// simulated mailer logs messages instead of delivering them.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/keyxmakerx/devpalette/internal/config"
)

// Mailer delivers a plain-text email to a single recipient.
type Mailer interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

// New returns an SMTP mailer when cfg is configured and a simulated one
// otherwise. logBodies controls whether the simulated mailer prints message
// bodies, which include reset codes; only enable it in development.
func New(cfg config.MailConfig, logBodies bool) Mailer {
	if cfg.IsConfigured() {
		return NewSMTPMailer(cfg)
	}
	slog.Info("SMTP not configured, emails will be logged instead of sent")
	return NewLogMailer(logBodies)
}

// logMailer is the simulated mailer.
type logMailer struct {
	logBodies bool
}

// NewLogMailer creates a Mailer that only logs.
func NewLogMailer(logBodies bool) Mailer {
	return &logMailer{logBodies: logBodies}
}

func (m *logMailer) SendMail(ctx context.Context, to, subject, body string) error {
	attrs := []any{
		slog.String("to", to),
		slog.String("subject", subject),
	}
	if m.logBodies {
		attrs = append(attrs, slog.String("body", body))
	}
	slog.InfoContext(ctx, "simulated email", attrs...)
	return nil
}

// headerSafe drops CR and LF so user-influenced values cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

// buildMessage renders an RFC 5322 plain-text message.
func buildMessage(from mail.Address, to, subject, body string, now time.Time) string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from.String())
	fmt.Fprintf(&msg, "To: %s\r\n", headerSafe(to))
	fmt.Fprintf(&msg, "Subject: %s\r\n", mimeSubject(headerSafe(subject)))
	fmt.Fprintf(&msg, "Date: %s\r\n", now.UTC().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	return msg.String()
}
