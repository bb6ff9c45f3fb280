package model

import (
	"time"

	"gorm.io/gorm"
)

// EmailVerification 注册时的邮箱验证记录
// 用户在验证通过前不会写入 users 表，密码哈希暂存在这里
type EmailVerification struct {
	gorm.Model
	Email        string     `gorm:"column:email;type:varchar(255);index;not null;comment:邮箱"`
	FullName     string     `gorm:"column:full_name;type:varchar(100);not null;comment:姓名"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(100);not null;comment:密码哈希"`
	CodeHash     string     `gorm:"column:code_hash;type:varchar(100);not null;comment:验证码哈希"`
	VerifyToken  string     `gorm:"column:verify_token;type:char(64);uniqueIndex;not null;comment:验证令牌"`
	ExpiresAt    time.Time  `gorm:"column:expires_at;not null;comment:过期时间"`
	Attempts     int        `gorm:"column:attempts;not null;default:0;comment:尝试次数"`
	UsedAt       *time.Time `gorm:"column:used_at;comment:使用时间"`
}

func (EmailVerification) TableName() string {
	return "email_verifications"
}

// MfaChallenge 登录二次验证
type MfaChallenge struct {
	gorm.Model
	UserID    uint       `gorm:"column:user_id;index;not null;comment:用户"`
	Channel   string     `gorm:"column:channel;type:varchar(10);not null;default:email;comment:发送渠道"`
	CodeHash  string     `gorm:"column:code_hash;type:varchar(100);not null;comment:验证码哈希"`
	MfaToken  string     `gorm:"column:mfa_token;type:char(64);uniqueIndex;not null;comment:挑战令牌"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null;comment:过期时间"`
	Attempts  int        `gorm:"column:attempts;not null;default:0;comment:尝试次数"`
	UsedAt    *time.Time `gorm:"column:used_at;comment:使用时间"`
}

func (MfaChallenge) TableName() string {
	return "mfa_challenges"
}

// PasswordResetToken 找回密码令牌，只保存 sha256 摘要
type PasswordResetToken struct {
	gorm.Model
	UserID    uint       `gorm:"column:user_id;index;not null;comment:用户"`
	TokenHash string     `gorm:"column:token_hash;type:char(64);uniqueIndex;not null;comment:令牌摘要"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null;comment:过期时间"`
	Attempts  int        `gorm:"column:attempts;not null;default:0;comment:尝试次数"`
	UsedAt    *time.Time `gorm:"column:used_at;comment:使用时间"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// Expired 判断记录是否过期
func (v *EmailVerification) Expired(now time.Time) bool { return now.After(v.ExpiresAt) }

// Expired 判断记录是否过期
func (m *MfaChallenge) Expired(now time.Time) bool { return now.After(m.ExpiresAt) }

// Expired 判断记录是否过期
func (p *PasswordResetToken) Expired(now time.Time) bool { return now.After(p.ExpiresAt) }
