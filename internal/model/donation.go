package model

import "gorm.io/gorm"

// 捐赠类型与状态
const (
	DonationTypeMoney = "money"
	DonationTypeTime  = "time"

	GuestDonationDemoSuccess = "demo_success"

	PaymentMethodCard = "card"
	PaymentMethodBit  = "bit"
)

// Donation 注册用户的捐赠记录
type Donation struct {
	gorm.Model
	UserID       uint    `gorm:"column:user_id;index;not null;comment:捐赠人"`
	RequestID    *uint   `gorm:"column:request_id;index;comment:关联请求"`
	DonationType string  `gorm:"column:donation_type;type:varchar(10);not null;default:money;comment:money/time"`
	Amount       float64 `gorm:"column:amount;type:decimal(12,2);not null;default:0;comment:金额"`
}

func (Donation) TableName() string {
	return "donations"
}

// GuestDonation 访客捐赠（演示支付）
type GuestDonation struct {
	gorm.Model
	Amount        float64 `gorm:"column:amount;type:decimal(12,2);not null;comment:金额"`
	PaymentMethod string  `gorm:"column:payment_method;type:varchar(10);not null;comment:card/bit"`
	DonorName     *string `gorm:"column:donor_name;type:varchar(100);comment:捐赠人"`
	DonorEmail    *string `gorm:"column:donor_email;type:varchar(255);comment:邮箱"`
	DonorPhone    *string `gorm:"column:donor_phone;type:varchar(30);comment:电话"`
	Status        string  `gorm:"column:status;type:varchar(20);index;not null;comment:状态"`
}

func (GuestDonation) TableName() string {
	return "guest_donations"
}
