package mailer

import (
	"fmt"
	"mime"
	"strings"
)

// message 一封纯文本邮件
type message struct {
	To      string
	Subject string
	Body    string
}

func verificationMessage(to, code string) message {
	return message{
		To:      to,
		Subject: "CareMatch: Your verification code",
		Body:    fmt.Sprintf("Your CareMatch verification code is: %s\n\nThis code will expire soon.", code),
	}
}

func passwordResetMessage(to, resetURL string) message {
	return message{
		To:      to,
		Subject: "CareMatch: Reset your password",
		Body: "We received a request to reset your password.\n\n" +
			"Reset link: " + resetURL + "\n\n" +
			"If you didn't request this, you can ignore this email.",
	}
}

func volunteerInterestMessage(to string, p VolunteerInterest) message {
	var b strings.Builder
	fmt.Fprintf(&b, "Someone wants to help with your request \"%s\".\n\n", p.RequestTitle)
	if p.RequestRegion != "" || p.RequestCategory != "" {
		fmt.Fprintf(&b, "Region: %s\nCategory: %s\n\n", p.RequestRegion, p.RequestCategory)
	}
	fmt.Fprintf(&b, "Name: %s\n", p.DonorName)
	if p.DonorEmail != "" {
		fmt.Fprintf(&b, "Email: %s\n", p.DonorEmail)
	}
	if p.DonorPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", p.DonorPhone)
	}
	fmt.Fprintf(&b, "\nMessage:\n%s\n\n", p.Message)
	b.WriteString("Open CareMatch to accept or reject this offer.")

	return message{
		To:      to,
		Subject: fmt.Sprintf("CareMatch: Someone wants to help with \"%s\"", p.RequestTitle),
		Body:    b.String(),
	}
}

// render 生成 RFC 5322 格式的邮件正文
func (m message) render(from string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	// 标题可能含非 ASCII 字符，按 RFC 2047 编码；纯 ASCII 保持原样
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", sanitizeHeader(m.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// sanitizeHeader 去掉换行，防止头部注入
func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
