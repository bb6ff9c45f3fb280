// Package model 定义数据库实体模型
// 本文件定义用户信息模型，包含用户基本资料和认证信息
package model

import (
	"time"

	"golang.org/x/crypto/bcrypt" // 密码哈希库
	"gorm.io/gorm"
)

// UserInfo 用户信息模型
// 对应数据库 users 表
type UserInfo struct {
	gorm.Model

	// FullName 用户姓名
	FullName string `gorm:"column:full_name;type:varchar(100);not null;comment:姓名"`

	// Email 登录邮箱，统一小写存储
	Email string `gorm:"column:email;type:varchar(255);uniqueIndex;not null;comment:邮箱"`

	// Phone 手机号（可选）
	Phone string `gorm:"column:phone;type:varchar(30);comment:电话"`

	// PasswordHash bcrypt 哈希后的密码
	PasswordHash string `gorm:"column:password_hash;type:varchar(100);not null;comment:密码"`

	// Role 角色：user / admin
	Role string `gorm:"column:role;type:varchar(20);not null;default:user;comment:角色"`

	// AccountType 账号类型：person / organization
	AccountType string `gorm:"column:account_type;type:varchar(20);not null;default:person;comment:账号类型"`

	// Region 所在地区
	Region string `gorm:"column:region;type:varchar(20);not null;default:north;comment:地区"`

	// EmailVerifiedAt 邮箱验证时间，为空表示未验证
	EmailVerifiedAt *time.Time `gorm:"column:email_verified_at;comment:邮箱验证时间"`

	// RawPassword 明文密码（不存入数据库）
	// 调用方只设置 RawPassword，BeforeSave 负责加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "users"
}

// BeforeSave GORM Hook：在创建和更新前将 RawPassword 加密后存入 PasswordHash
func (u *UserInfo) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.PasswordHash = string(hash)
		u.RawPassword = "" // 清空明文
	}
	return nil
}

// CheckPassword 校验密码是否正确
func (u *UserInfo) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext))
	return err == nil
}

// IsVerified 邮箱是否已验证
func (u *UserInfo) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}
