// Package verification 提供邮箱验证、登录二次验证和密码重置令牌的数据访问实现
package verification

import (
	"time"

	"carematch_server/internal/dao/mysql/internal"
	"carematch_server/internal/model"

	"gorm.io/gorm"
)

type emailVerificationRepository struct {
	db *gorm.DB
}

// NewEmailVerificationRepository 创建 EmailVerificationRepository 实例
func NewEmailVerificationRepository(db *gorm.DB) *emailVerificationRepository {
	return &emailVerificationRepository{db: db}
}

// Create 创建验证记录
func (r *emailVerificationRepository) Create(v *model.EmailVerification) error {
	if err := r.db.Create(v).Error; err != nil {
		return internal.WrapDBError(err, "创建邮箱验证")
	}
	return nil
}

// FindPendingByEmail 查找该邮箱最近一条未使用且未过期的记录
func (r *emailVerificationRepository) FindPendingByEmail(email string, now time.Time) (*model.EmailVerification, error) {
	var v model.EmailVerification
	err := r.db.Where("email = ? AND used_at IS NULL AND expires_at > ?", email, now).
		Order("id DESC").
		First(&v).Error
	if err != nil {
		return nil, internal.WrapDBErrorf(err, "查询待验证记录 email=%s", email)
	}
	return &v, nil
}

// FindByToken 按验证令牌查找
func (r *emailVerificationRepository) FindByToken(token string) (*model.EmailVerification, error) {
	var v model.EmailVerification
	if err := r.db.First(&v, "verify_token = ?", token).Error; err != nil {
		return nil, internal.WrapDBError(err, "查询邮箱验证令牌")
	}
	return &v, nil
}

// RotateCode 更换验证码并重置过期时间与尝试次数
func (r *emailVerificationRepository) RotateCode(id uint, codeHash string, expiresAt time.Time) error {
	err := r.db.Model(&model.EmailVerification{}).Where("id = ?", id).Updates(map[string]any{
		"code_hash":  codeHash,
		"expires_at": expiresAt,
		"attempts":   0,
	}).Error
	if err != nil {
		return internal.WrapDBErrorf(err, "更新邮箱验证码 id=%d", id)
	}
	return nil
}

// IncrementAttempts 尝试次数加一
func (r *emailVerificationRepository) IncrementAttempts(id uint) error {
	err := r.db.Model(&model.EmailVerification{}).Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
	if err != nil {
		return internal.WrapDBErrorf(err, "更新尝试次数 id=%d", id)
	}
	return nil
}

// MarkUsed 标记已使用
func (r *emailVerificationRepository) MarkUsed(id uint, at time.Time) error {
	if err := r.db.Model(&model.EmailVerification{}).Where("id = ?", id).Update("used_at", at).Error; err != nil {
		return internal.WrapDBErrorf(err, "标记邮箱验证已使用 id=%d", id)
	}
	return nil
}
