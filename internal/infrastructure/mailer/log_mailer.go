package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer 只把邮件写入日志，本地开发使用
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (l *LogMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	return l.log(verificationMessage(to, code))
}

func (l *LogMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	return l.log(passwordResetMessage(to, resetURL))
}

func (l *LogMailer) SendVolunteerInterest(ctx context.Context, to string, p VolunteerInterest) error {
	return l.log(volunteerInterestMessage(to, p))
}

func (l *LogMailer) log(m message) error {
	zap.L().Info("[MockMail]",
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
		zap.String("body", m.Body),
	)
	return nil
}

var _ Mailer = (*LogMailer)(nil)
