package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	gosmtp "net/smtp"
	"strconv"
	"time"

	"github.com/keyxmakerx/devpalette/internal/config"
)

const dialTimeout = 10 * time.Second

// smtpMailer delivers over SMTP with STARTTLS, implicit TLS, or no
// encryption, per MailConfig.Encryption.
type smtpMailer struct {
	cfg config.MailConfig
	now func() time.Time
}

// NewSMTPMailer creates a Mailer that delivers through the configured server.
func NewSMTPMailer(cfg config.MailConfig) Mailer {
	return &smtpMailer{cfg: cfg, now: time.Now}
}

// SendMail dials the server for every message; reset emails are rare enough
// that a pooled connection is not worth holding open.
func (m *smtpMailer) SendMail(ctx context.Context, to, subject, body string) error {
	from := mail.Address{Name: m.cfg.FromName, Address: m.cfg.From}
	msg := buildMessage(from, to, subject, body, m.now())
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	client, err := m.dial(ctx, addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if m.cfg.Username != "" {
		auth := gosmtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}
	}

	return sendMessage(client, from.Address, to, msg)
}

// dial connects and, for starttls, upgrades the session before returning.
func (m *smtpMailer) dial(ctx context.Context, addr string) (*gosmtp.Client, error) {
	dialer := &net.Dialer{Timeout: dialTimeout}
	tlsConfig := &tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if m.cfg.Encryption == "ssl" {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := gosmtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	if m.cfg.Encryption == "starttls" {
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, fmt.Errorf("starting TLS: %w", err)
		}
	}
	return client, nil
}

// sendMessage handles MAIL FROM, RCPT TO, DATA for an existing SMTP client.
func sendMessage(client *gosmtp.Client, from, to, msg string) error {
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO %s: %w", to, err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing data: %w", err)
	}
	return client.Quit()
}

// mimeSubject Q-encodes non-ASCII subjects.
func mimeSubject(s string) string {
	return mime.QEncoding.Encode("utf-8", s)
}
