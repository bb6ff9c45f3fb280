package model

import "time"

// RequestFilter 请求列表筛选条件，空字符串表示不过滤
type RequestFilter struct {
	Region   string
	Topic    string
	Category string
	HelpType string
	Status   string
	OwnerID  uint // 非零时只返回该用户发布的请求
	Limit    int
}

// UserSummary 管理后台的用户列表行
type UserSummary struct {
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

// MonthlyTotal 按月汇总的捐赠
type MonthlyTotal struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
}

// RegionCount 按地区统计的请求数
type RegionCount struct {
	Region string `json:"region"`
	Count  int64  `json:"count"`
}

// PaymentMethodTotal 按支付方式汇总的访客捐赠
type PaymentMethodTotal struct {
	PaymentMethod string  `json:"payment_method"`
	Count         int64   `json:"count"`
	Amount        float64 `json:"amount"`
}
