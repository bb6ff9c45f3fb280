// Package mailer 提供邮件通知服务
// 注册验证码、登录二次验证、找回密码和志愿者意向通知都经由这里发出
package mailer

import (
	"context"
	"fmt"
	"strings"

	"carematch_server/internal/config"
)

// VolunteerInterest 志愿者意向邮件内容
type VolunteerInterest struct {
	RequestTitle    string
	RequestRegion   string
	RequestCategory string
	DonorName       string
	DonorEmail      string
	DonorPhone      string
	Message         string
}

// Mailer 邮件服务接口
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, code string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
	SendVolunteerInterest(ctx context.Context, to string, p VolunteerInterest) error
}

// New 按配置创建邮件服务：smtp 真实发送，log 只写日志
func New(conf *config.SmtpConfig) (Mailer, error) {
	switch strings.ToLower(conf.Mode) {
	case "smtp":
		if conf.Host == "" {
			return nil, fmt.Errorf("smtp mode requires smtpConfig.host")
		}
		return NewSMTPMailer(conf), nil
	case "", "log":
		return NewLogMailer(), nil
	default:
		return nil, fmt.Errorf("unknown smtp mode %q", conf.Mode)
	}
}
