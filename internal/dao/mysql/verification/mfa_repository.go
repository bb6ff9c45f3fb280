package verification

import (
	"time"

	"carematch_server/internal/dao/mysql/internal"
	"carematch_server/internal/model"

	"gorm.io/gorm"
)

type mfaRepository struct {
	db *gorm.DB
}

// NewMfaRepository 创建 MfaRepository 实例
func NewMfaRepository(db *gorm.DB) *mfaRepository {
	return &mfaRepository{db: db}
}

// Create 创建二次验证挑战
func (r *mfaRepository) Create(c *model.MfaChallenge) error {
	if err := r.db.Create(c).Error; err != nil {
		return internal.WrapDBError(err, "创建二次验证")
	}
	return nil
}

// FindByToken 按挑战令牌查找
func (r *mfaRepository) FindByToken(token string) (*model.MfaChallenge, error) {
	var c model.MfaChallenge
	if err := r.db.First(&c, "mfa_token = ?", token).Error; err != nil {
		return nil, internal.WrapDBError(err, "查询二次验证令牌")
	}
	return &c, nil
}

// RotateCode 更换验证码并重置过期时间与尝试次数
func (r *mfaRepository) RotateCode(id uint, codeHash string, expiresAt time.Time) error {
	err := r.db.Model(&model.MfaChallenge{}).Where("id = ?", id).Updates(map[string]any{
		"code_hash":  codeHash,
		"expires_at": expiresAt,
		"attempts":   0,
	}).Error
	if err != nil {
		return internal.WrapDBErrorf(err, "更新二次验证码 id=%d", id)
	}
	return nil
}

// IncrementAttempts 尝试次数加一
func (r *mfaRepository) IncrementAttempts(id uint) error {
	err := r.db.Model(&model.MfaChallenge{}).Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
	if err != nil {
		return internal.WrapDBErrorf(err, "更新尝试次数 id=%d", id)
	}
	return nil
}

// MarkUsed 标记已使用
func (r *mfaRepository) MarkUsed(id uint, at time.Time) error {
	if err := r.db.Model(&model.MfaChallenge{}).Where("id = ?", id).Update("used_at", at).Error; err != nil {
		return internal.WrapDBErrorf(err, "标记二次验证已使用 id=%d", id)
	}
	return nil
}

// Delete 删除挑战（邮件发送失败时回收）
func (r *mfaRepository) Delete(id uint) error {
	if err := r.db.Unscoped().Delete(&model.MfaChallenge{}, id).Error; err != nil {
		return internal.WrapDBErrorf(err, "删除二次验证 id=%d", id)
	}
	return nil
}

// DeleteByUser 删除用户的所有挑战
func (r *mfaRepository) DeleteByUser(userID uint) error {
	if err := r.db.Unscoped().Where("user_id = ?", userID).Delete(&model.MfaChallenge{}).Error; err != nil {
		return internal.WrapDBErrorf(err, "删除用户二次验证 user_id=%d", userID)
	}
	return nil
}
