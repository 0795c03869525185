package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Mailer is the outbound notifier contract used by the auth workflow.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Config holds SMTP transport settings.
type Config struct {
	Host       string
	Port       int
	From       string
	Username   string
	Password   string
	Encryption string // starttls, ssl or none
	Timeout    time.Duration
}

// SMTPMailer sends mail over a plain SMTP connection, STARTTLS or implicit
// TLS depending on configuration. The transporter is constructed once and
// shared for the process lifetime; it holds no mutable state.
type SMTPMailer struct {
	cfg    Config
	logger *zap.Logger
}

// NewSMTPMailer creates the process-wide mail transporter.
func NewSMTPMailer(cfg Config, logger *zap.Logger) *SMTPMailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers a single HTML email. The send is awaited by callers; a
// failure is reported as an error, never swallowed.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := mail.Address{Address: m.cfg.From}
	msg := buildMessage(from.String(), to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var err error
	switch m.cfg.Encryption {
	case "ssl":
		err = m.sendSSL(addr, to, msg)
	case "starttls":
		err = m.sendStartTLS(addr, to, msg)
	default:
		err = m.sendPlain(addr, to, msg)
	}

	if err != nil {
		m.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	m.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// buildMessage assembles an RFC 2822 message with an HTML body.
func buildMessage(from, to, subject, htmlBody string) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return msg.String()
}

// sendStartTLS sends using STARTTLS (port 587 typical).
func (m *SMTPMailer) sendStartTLS(addr, to, msg string) error {
	conn, err := net.DialTimeout("tcp", addr, m.cfg.Timeout)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("starting TLS: %w", err)
	}

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}
	}

	return m.sendMessage(client, to, msg)
}

// sendSSL sends using implicit SSL/TLS (port 465 typical).
func (m *SMTPMailer) sendSSL(addr, to, msg string) error {
	tlsConfig := &tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}
	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: m.cfg.Timeout}, "tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("connecting to %s (SSL): %w", addr, err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}
	}

	return m.sendMessage(client, to, msg)
}

// sendPlain sends without encryption (local relays, mailhog).
func (m *SMTPMailer) sendPlain(addr, to, msg string) error {
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

// sendMessage handles MAIL FROM, RCPT TO, DATA for an existing SMTP client.
func (m *SMTPMailer) sendMessage(client *smtp.Client, to, msg string) error {
	if err := client.Mail(m.cfg.From); err != nil {
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
