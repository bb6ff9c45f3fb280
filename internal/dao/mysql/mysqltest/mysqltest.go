// Package mysqltest 为数据访问层和业务层的测试提供数据库夹具
package mysqltest

import (
	"path/filepath"
	"testing"

	"carematch_server/internal/dao/mysql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLite 在临时目录创建已迁移的 SQLite 数据库
// 只开一个连接，并发写入会在连接上排队
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carematch.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, mysql.AutoMigrate(db))
	return db
}

// NewRepositories 基于 SQLite 构造完整的 Repositories
func NewRepositories(t testing.TB) (*gorm.DB, *mysql.Repositories) {
	t.Helper()
	db := NewSQLite(t)
	return db, mysql.NewRepositories(db)
}

// NewMock 创建由 sqlmock 驱动的 MySQL 方言 GORM 实例，用于断言生成的 SQL
func NewMock(t testing.TB) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysqldriver.New(mysqldriver.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true, Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}
