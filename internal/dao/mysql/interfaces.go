// Package mysql 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的子包中
package mysql

import (
	"time"

	"carematch_server/internal/model"
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	FindByID(id uint) (*model.UserInfo, error)
	// FindByEmail 邮箱需已规范化为小写
	FindByEmail(email string) (*model.UserInfo, error)
	CreateUser(user *model.UserInfo) error
	UpdatePasswordHash(id uint, hash string) error
	MarkVerified(id uint, at time.Time) error
	// ListWithRequestCount 管理后台用户列表
	ListWithRequestCount(limit int) ([]model.UserSummary, error)
	DeleteUser(id uint) error
}

// RequestRepository 求助请求数据访问接口
type RequestRepository interface {
	Create(req *model.HelpRequest) error
	FindByID(id uint) (*model.HelpRequest, error)
	List(filter model.RequestFilter) ([]model.HelpRequest, error)
	// ConditionalUpdate 仅当 status = expectedStatus 时写入 fields，返回影响行数
	ConditionalUpdate(id uint, expectedStatus string, fields map[string]any) (int64, error)
	UpdateFields(id uint, fields map[string]any) error
	DeleteByUser(userID uint) error
	Count() (int64, error)
	CountByRegion() ([]model.RegionCount, error)
}

// EmailVerificationRepository 注册邮箱验证
type EmailVerificationRepository interface {
	Create(v *model.EmailVerification) error
	FindPendingByEmail(email string, now time.Time) (*model.EmailVerification, error)
	FindByToken(token string) (*model.EmailVerification, error)
	RotateCode(id uint, codeHash string, expiresAt time.Time) error
	IncrementAttempts(id uint) error
	MarkUsed(id uint, at time.Time) error
}

// MfaRepository 登录二次验证
type MfaRepository interface {
	Create(c *model.MfaChallenge) error
	FindByToken(token string) (*model.MfaChallenge, error)
	RotateCode(id uint, codeHash string, expiresAt time.Time) error
	IncrementAttempts(id uint) error
	MarkUsed(id uint, at time.Time) error
	Delete(id uint) error
	DeleteByUser(userID uint) error
}

// ResetTokenRepository 找回密码令牌
type ResetTokenRepository interface {
	Create(t *model.PasswordResetToken) error
	FindByHash(hash string) (*model.PasswordResetToken, error)
	IncrementAttempts(id uint) error
	MarkUsed(id uint, at time.Time) error
	Delete(id uint) error
	DeleteUnusedByUser(userID uint) error
	DeleteByUser(userID uint) error
}

// DonationRepository 捐赠数据访问接口
type DonationRepository interface {
	Create(d *model.Donation) error
	CreateGuest(d *model.GuestDonation) error
	DeleteByUser(userID uint) error
	SumMoney() (float64, error)
	GuestStats() ([]model.PaymentMethodTotal, error)
	MonthlyTotals(limit int) ([]model.MonthlyTotal, error)
}
