// Package user 提供用户相关数据访问层的具体实现
package user

import (
	"time"

	"carematch_server/internal/dao/mysql/internal"
	"carematch_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

// FindByID 按主键查找用户
func (r *userRepository) FindByID(id uint) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, internal.WrapDBErrorf(err, "查询用户 id=%d", id)
	}
	return &user, nil
}

// FindByEmail 按邮箱查找用户，邮箱需已规范化为小写
func (r *userRepository) FindByEmail(email string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, internal.WrapDBErrorf(err, "查询用户 email=%s", email)
	}
	return &user, nil
}

// CreateUser 创建用户
func (r *userRepository) CreateUser(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		return internal.WrapDBError(err, "创建用户")
	}
	return nil
}

// UpdatePasswordHash 更新密码哈希
func (r *userRepository) UpdatePasswordHash(id uint, hash string) error {
	if err := r.db.Model(&model.UserInfo{}).Where("id = ?", id).Update("password_hash", hash).Error; err != nil {
		return internal.WrapDBErrorf(err, "更新密码 id=%d", id)
	}
	return nil
}

// MarkVerified 标记邮箱已验证，已有验证时间的不覆盖
func (r *userRepository) MarkVerified(id uint, at time.Time) error {
	if err := r.db.Model(&model.UserInfo{}).
		Where("id = ? AND email_verified_at IS NULL", id).
		Update("email_verified_at", at).Error; err != nil {
		return internal.WrapDBErrorf(err, "标记邮箱已验证 id=%d", id)
	}
	return nil
}

// ListWithRequestCount 用户列表（附带发布的请求数），按创建时间倒序
func (r *userRepository) ListWithRequestCount(limit int) ([]model.UserSummary, error) {
	var rows []model.UserSummary
	err := r.db.Table("users AS u").
		Select("u.id, u.full_name, u.email, u.phone, u.role, u.account_type, u.region, u.email_verified_at, u.created_at, COUNT(r.id) AS request_count").
		Joins("LEFT JOIN requests r ON r.user_id = u.id AND r.deleted_at IS NULL").
		Where("u.deleted_at IS NULL").
		Group("u.id, u.full_name, u.email, u.phone, u.role, u.account_type, u.region, u.email_verified_at, u.created_at").
		Order("u.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, internal.WrapDBError(err, "查询用户列表")
	}
	return rows, nil
}

// DeleteUser 物理删除用户
func (r *userRepository) DeleteUser(id uint) error {
	if err := r.db.Unscoped().Delete(&model.UserInfo{}, id).Error; err != nil {
		return internal.WrapDBErrorf(err, "删除用户 id=%d", id)
	}
	return nil
}
