package verification

import (
	"time"

	"carematch_server/internal/dao/mysql/internal"
	"carematch_server/internal/model"

	"gorm.io/gorm"
)

type resetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository 创建 ResetTokenRepository 实例
func NewResetTokenRepository(db *gorm.DB) *resetTokenRepository {
	return &resetTokenRepository{db: db}
}

// Create 创建重置令牌
func (r *resetTokenRepository) Create(t *model.PasswordResetToken) error {
	if err := r.db.Create(t).Error; err != nil {
		return internal.WrapDBError(err, "创建重置令牌")
	}
	return nil
}

// FindByHash 按令牌摘要查找
func (r *resetTokenRepository) FindByHash(hash string) (*model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	if err := r.db.First(&t, "token_hash = ?", hash).Error; err != nil {
		return nil, internal.WrapDBError(err, "查询重置令牌")
	}
	return &t, nil
}

// IncrementAttempts 尝试次数加一
func (r *resetTokenRepository) IncrementAttempts(id uint) error {
	err := r.db.Model(&model.PasswordResetToken{}).Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
	if err != nil {
		return internal.WrapDBErrorf(err, "更新尝试次数 id=%d", id)
	}
	return nil
}

// MarkUsed 标记已使用
func (r *resetTokenRepository) MarkUsed(id uint, at time.Time) error {
	if err := r.db.Model(&model.PasswordResetToken{}).Where("id = ?", id).Update("used_at", at).Error; err != nil {
		return internal.WrapDBErrorf(err, "标记重置令牌已使用 id=%d", id)
	}
	return nil
}

// Delete 删除令牌（邮件发送失败时回收）
func (r *resetTokenRepository) Delete(id uint) error {
	if err := r.db.Unscoped().Delete(&model.PasswordResetToken{}, id).Error; err != nil {
		return internal.WrapDBErrorf(err, "删除重置令牌 id=%d", id)
	}
	return nil
}

// DeleteUnusedByUser 删除用户所有未使用的令牌
func (r *resetTokenRepository) DeleteUnusedByUser(userID uint) error {
	err := r.db.Unscoped().Where("user_id = ? AND used_at IS NULL", userID).
		Delete(&model.PasswordResetToken{}).Error
	if err != nil {
		return internal.WrapDBErrorf(err, "删除未使用的重置令牌 user_id=%d", userID)
	}
	return nil
}

// DeleteByUser 删除用户的所有令牌
func (r *resetTokenRepository) DeleteByUser(userID uint) error {
	if err := r.db.Unscoped().Where("user_id = ?", userID).Delete(&model.PasswordResetToken{}).Error; err != nil {
		return internal.WrapDBErrorf(err, "删除用户重置令牌 user_id=%d", userID)
	}
	return nil
}
