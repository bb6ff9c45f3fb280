package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"carematch_server/internal/config"
)

const dialTimeout = 10 * time.Second

// SMTPMailer 通过 SMTP 发送邮件
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	tlsMode  string
}

// NewSMTPMailer 创建 SMTP 邮件服务，发件人缺省使用登录用户
func NewSMTPMailer(conf *config.SmtpConfig) *SMTPMailer {
	from := conf.From
	if from == "" {
		from = conf.User
	}
	return &SMTPMailer{
		host:     conf.Host,
		port:     conf.Port,
		user:     conf.User,
		password: conf.Password,
		from:     from,
		tlsMode:  strings.ToLower(conf.TLSMode),
	}
}

func (s *SMTPMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	return s.send(ctx, verificationMessage(to, code))
}

func (s *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	return s.send(ctx, passwordResetMessage(to, resetURL))
}

func (s *SMTPMailer) SendVolunteerInterest(ctx context.Context, to string, p VolunteerInterest) error {
	return s.send(ctx, volunteerInterestMessage(to, p))
}

func (s *SMTPMailer) send(ctx context.Context, m message) error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("missing recipient")
	}
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))

	client, err := s.dial(ctx, addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.tlsMode == "starttls" {
		if err := client.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	if s.user != "" && s.password != "" {
		if err := client.Auth(smtp.PlainAuth("", s.user, s.password, s.host)); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("SMTP MAIL failed: %w", err)
	}
	if err := client.Rcpt(m.To); err != nil {
		return fmt.Errorf("SMTP RCPT failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA failed: %w", err)
	}
	if _, err := w.Write(m.render(s.from)); err != nil {
		return fmt.Errorf("SMTP write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("SMTP close failed: %w", err)
	}
	return client.Quit()
}

// dial tls 模式直接建立 TLS 连接（465），其余模式先建明文连接
func (s *SMTPMailer) dial(ctx context.Context, addr string) (*smtp.Client, error) {
	dialer := &net.Dialer{Timeout: dialTimeout}

	var (
		conn net.Conn
		err  error
	)
	if s.tlsMode == "tls" {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("SMTP dial %s failed: %w", addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("SMTP client failed: %w", err)
	}
	return client, nil
}

var _ Mailer = (*SMTPMailer)(nil)
