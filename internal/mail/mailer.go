package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/shareplaces/backend/internal/apperr"
)

// Mailer 发送通知邮件
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Config SMTP 配置
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderName  string
	DialTimeout time.Duration
}

// SMTPMailer 通过 SMTP (implicit TLS) 发送邮件
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer 创建 SMTP 邮件发送器
func NewSMTPMailer(cfg Config) *SMTPMailer {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 30 * time.Second
	}
	return &SMTPMailer{cfg: cfg}
}

// Send 发送一封 HTML 邮件，失败返回 Upstream 错误
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := m.send(ctx, to, subject, htmlBody); err != nil {
		return apperr.Upstream("Failed to send mail", err)
	}
	return nil
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	timeout := m.cfg.DialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{
		ServerName: m.cfg.Host,
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(m.cfg.Username); err != nil {
		return fmt.Errorf("SMTP MAIL command failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("SMTP RCPT command failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA command failed: %w", err)
	}

	msg := m.buildMessage(to, subject, htmlBody)
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write mail body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish mail body: %w", err)
	}

	return client.Quit()
}

func (m *SMTPMailer) buildMessage(to, subject, htmlBody string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %q <%s>\r\n", m.cfg.SenderName, m.cfg.Username))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Subject: shareplaces.com : %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	sb.WriteString("<br><br><p>This is an auto generated message. Please do not reply.<br><br>Thanks and regards,<br>Admin @SharePlaces</p>\r\n")
	return sb.String()
}
