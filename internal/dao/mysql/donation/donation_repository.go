// Package donation 提供捐赠相关的数据访问实现
package donation

import (
	"fmt"

	"carematch_server/internal/dao/mysql/internal"
	"carematch_server/internal/model"

	"gorm.io/gorm"
)

type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository 创建 DonationRepository 实例
func NewDonationRepository(db *gorm.DB) *donationRepository {
	return &donationRepository{db: db}
}

// Create 记录注册用户的捐赠
func (r *donationRepository) Create(d *model.Donation) error {
	if err := r.db.Create(d).Error; err != nil {
		return internal.WrapDBError(err, "创建捐赠")
	}
	return nil
}

// CreateGuest 记录访客捐赠
func (r *donationRepository) CreateGuest(d *model.GuestDonation) error {
	if err := r.db.Create(d).Error; err != nil {
		return internal.WrapDBError(err, "创建访客捐赠")
	}
	return nil
}

// DeleteByUser 物理删除用户的捐赠记录
func (r *donationRepository) DeleteByUser(userID uint) error {
	if err := r.db.Unscoped().Where("user_id = ?", userID).Delete(&model.Donation{}).Error; err != nil {
		return internal.WrapDBErrorf(err, "删除用户捐赠 user_id=%d", userID)
	}
	return nil
}

// SumMoney 注册用户资金捐赠总额
func (r *donationRepository) SumMoney() (float64, error) {
	var total float64
	err := r.db.Model(&model.Donation{}).
		Where("donation_type = ?", model.DonationTypeMoney).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, internal.WrapDBError(err, "统计用户捐赠")
	}
	return total, nil
}

// GuestStats 按支付方式汇总成功的访客捐赠
func (r *donationRepository) GuestStats() ([]model.PaymentMethodTotal, error) {
	var rows []model.PaymentMethodTotal
	err := r.db.Model(&model.GuestDonation{}).
		Select("payment_method, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("status = ?", model.GuestDonationDemoSuccess).
		Group("payment_method").
		Order("payment_method ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, internal.WrapDBError(err, "统计访客捐赠")
	}
	return rows, nil
}

// MonthlyTotals 合并两张捐赠表按月汇总，月份升序
func (r *donationRepository) MonthlyTotals(limit int) ([]model.MonthlyTotal, error) {
	month := monthExpr(r.db)
	sql := fmt.Sprintf(`SELECT month, SUM(total) AS total FROM (
	SELECT %[1]s AS month, COALESCE(SUM(amount), 0) AS total
	FROM guest_donations WHERE status = ? AND deleted_at IS NULL
	GROUP BY %[1]s
	UNION ALL
	SELECT %[1]s AS month, COALESCE(SUM(amount), 0) AS total
	FROM donations WHERE donation_type = ? AND deleted_at IS NULL
	GROUP BY %[1]s
) t GROUP BY month ORDER BY month ASC LIMIT ?`, month)

	var rows []model.MonthlyTotal
	if err := r.db.Raw(sql, model.GuestDonationDemoSuccess, model.DonationTypeMoney, limit).Scan(&rows).Error; err != nil {
		return nil, internal.WrapDBError(err, "按月统计捐赠")
	}
	return rows, nil
}

// monthExpr 各方言下把 created_at 格式化为 YYYY-MM
func monthExpr(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m', created_at)"
	}
	return "DATE_FORMAT(created_at, '%Y-%m')"
}
