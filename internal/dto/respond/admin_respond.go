package respond

import "time"

// GuestDonationRespond 游客捐赠结果
type GuestDonationRespond struct {
	DonationID uint   `json:"donationId"`
	Status     string `json:"status"`
}

// PaymentMethodStat 按支付方式统计
type PaymentMethodStat struct {
	PaymentMethod string  `json:"payment_method"`
	Count         int64   `json:"count"`
	Amount        float64 `json:"amount"`
}

// GuestDonationStatsRespond 游客捐赠统计
type GuestDonationStatsRespond struct {
	TotalCount  int64               `json:"total_count"`
	TotalAmount float64             `json:"total_amount"`
	ByMethod    []PaymentMethodStat `json:"by_method"`
}

// AdminMetricsRespond 后台概览
// 使用位置:
//   - internal/service/admin/service.go: Metrics
type AdminMetricsRespond struct {
	TotalDonations     float64 `json:"totalDonations"`
	TotalRequests      int64   `json:"totalRequests"`
	TotalOrganizations int     `json:"totalOrganizations"`
}

// AdminUserRespond 后台用户列表项
type AdminUserRespond struct {
	ID              uint       `json:"id"`
	FullName        string     `json:"full_name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Role            string     `json:"role"`
	AccountType     string     `json:"account_type"`
	Region          string     `json:"region"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	RequestCount    int64      `json:"request_count"`
}

// MonthlyDonationRespond 按月捐赠金额
type MonthlyDonationRespond struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// RegionCountRespond 各地区请求数
type RegionCountRespond struct {
	Region string `json:"region"`
	Count  int64  `json:"count"`
}
