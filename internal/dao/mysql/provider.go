// Package mysql 提供 Repository 层聚合与构造
package mysql

import (
	"gorm.io/gorm"

	"carematch_server/internal/dao/mysql/donation"
	"carematch_server/internal/dao/mysql/request"
	"carematch_server/internal/dao/mysql/user"
	"carematch_server/internal/dao/mysql/verification"
)

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db           *gorm.DB
	User         UserRepository
	Request      RequestRepository
	Verification EmailVerificationRepository
	Mfa          MfaRepository
	ResetToken   ResetTokenRepository
	Donation     DonationRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:           db,
		User:         user.NewUserRepository(db),
		Request:      request.NewRequestRepository(db),
		Verification: verification.NewEmailVerificationRepository(db),
		Mfa:          verification.NewMfaRepository(db),
		ResetToken:   verification.NewResetTokenRepository(db),
		Donation:     donation.NewDonationRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// Ping 执行 SELECT 1 检查数据库连通性
func (r *Repositories) Ping() error {
	var one int
	return r.db.Raw("SELECT 1").Scan(&one).Error
}
