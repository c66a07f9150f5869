package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SMTPConfig holds SMTP server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPTransport sends email through an SMTP relay. Port 465 uses implicit
// TLS; other ports upgrade with STARTTLS when the server offers it.
type SMTPTransport struct {
	cfg SMTPConfig
}

// NewSMTPTransport creates an SMTP transport.
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPTransport{cfg: cfg}
}

// Name returns the transport name.
func (s *SMTPTransport) Name() string {
	return "smtp"
}

// Send delivers msg in a single SMTP session.
func (s *SMTPTransport) Send(ctx context.Context, msg Message) (SendResult, error) {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return SendResult{}, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	rcpts := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		addr, err := mail.ParseAddress(to)
		if err != nil {
			return SendResult{}, fmt.Errorf("invalid recipient %q: %w", to, err)
		}
		rcpts = append(rcpts, addr.Address)
	}

	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(from.Address))
	body := buildMIME(msg, id)

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	conn, err := s.dial(ctx, addr)
	if err != nil {
		return SendResult{}, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return SendResult{}, fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	if _, isTLS := conn.(*tls.Conn); !isTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
				return SendResult{}, fmt.Errorf("SMTP STARTTLS failed: %w", err)
			}
		}
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return SendResult{}, fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(from.Address); err != nil {
		return SendResult{}, fmt.Errorf("SMTP MAIL command failed: %w", err)
	}
	for _, rcpt := range rcpts {
		if err := client.Rcpt(rcpt); err != nil {
			return SendResult{}, fmt.Errorf("SMTP RCPT command failed: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return SendResult{}, fmt.Errorf("SMTP DATA command failed: %w", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		return SendResult{}, fmt.Errorf("writing email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return SendResult{}, fmt.Errorf("closing email body: %w", err)
	}

	if err := client.Quit(); err != nil {
		return SendResult{}, fmt.Errorf("SMTP QUIT failed: %w", err)
	}
	return SendResult{ID: id}, nil
}

func (s *SMTPTransport) dial(ctx context.Context, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 30 * time.Second}
	if s.cfg.Port == 465 {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: s.cfg.Host}}
		conn, err := tlsDialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("TLS dial failed: %w", err)
		}
		return conn, nil
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}
	return conn, nil
}

func buildMIME(msg Message, messageID string) string {
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("Message-ID: " + messageID + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(msg.HTML, "\r\n", "\n"), "\n", "\r\n"))
	return b.String()
}

func domainOf(address string) string {
	if i := strings.LastIndex(address, "@"); i >= 0 && i < len(address)-1 {
		return address[i+1:]
	}
	return "localhost"
}
