package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"alx_travel_app/internal/domain/entities"
)

var ErrNoRecipients = errors.New("email has no recipients")

// Mailer delivers one rendered message.
type Mailer interface {
	Deliver(ctx context.Context, msg entities.EmailMessage) error
}

type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends mail through a plain SMTP relay, using STARTTLS when
// the server offers it.
type SMTPMailer struct {
	addr     string
	auth     smtp.Auth
	sendMail sendMailFunc
	now      func() time.Time
}

func NewSMTPMailer(s SMTPSettings) *SMTPMailer {
	port := s.Port
	if port == 0 {
		port = 587
	}
	m := &SMTPMailer{
		addr:     net.JoinHostPort(s.Host, strconv.Itoa(port)),
		sendMail: smtp.SendMail,
		now:      time.Now,
	}
	if s.Username != "" {
		m.auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	return m
}

func (m *SMTPMailer) Deliver(ctx context.Context, msg entities.EmailMessage) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.sendMail(m.addr, m.auth, msg.From, msg.To, m.render(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.addr, err)
	}
	slog.InfoContext(ctx, "[email][smtp] message sent", "to", strings.Join(msg.To, ","), "subject", msg.Subject)
	return nil
}

func (m *SMTPMailer) render(msg entities.EmailMessage) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(msg.Subject) + "\r\n")
	b.WriteString("Date: " + m.now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// LogMailer only logs messages. Used when no SMTP host is configured.
type LogMailer struct{}

func (LogMailer) Deliver(ctx context.Context, msg entities.EmailMessage) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	slog.InfoContext(ctx, "[email][log] message", "from", msg.From, "to", strings.Join(msg.To, ","), "subject", msg.Subject, "body", msg.Body)
	return nil
}

// NewMailer picks SMTP when a host is configured, otherwise the log mailer.
func NewMailer(s SMTPSettings) Mailer {
	if strings.TrimSpace(s.Host) == "" {
		slog.Warn("[email][mailer] SMTP_HOST not set, e-mails will only be logged")
		return LogMailer{}
	}
	return NewSMTPMailer(s)
}

var (
	_ Mailer = (*SMTPMailer)(nil)
	_ Mailer = LogMailer{}
)
