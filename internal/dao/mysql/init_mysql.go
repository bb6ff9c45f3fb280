// Package mysql 提供数据访问层的初始化
// 负责建立 MySQL 连接、自动迁移表结构、初始化 Repository 层
package mysql

import (
	"fmt"

	"carematch_server/internal/config"
	"carematch_server/internal/model"

	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init 建立数据库连接、迁移表结构并返回 Repository 层实例
func Init(conf *config.MysqlConfig) (*gorm.DB, *Repositories, error) {
	// 格式：user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.User,
		conf.Password,
		conf.Host,
		conf.Port,
		conf.DatabaseName,
	)

	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("open mysql: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, NewRepositories(db), nil
}

// AutoMigrate 创建或更新表结构，不会删除已有字段或数据
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.UserInfo{},
		&model.HelpRequest{},
		&model.EmailVerification{},
		&model.MfaChallenge{},
		&model.PasswordResetToken{},
		&model.Donation{},
		&model.GuestDonation{},
	)
}
