package request

// GuestDonationRequest 游客捐赠（演示支付）
// 使用位置:
//   - internal/handler/donation_handler.go: CreateGuest
type GuestDonationRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0,lte=1000000"`
	PaymentMethod string  `json:"payment_method" binding:"required,oneof=card bit"`
	DonorName     string  `json:"donor_name" binding:"omitempty,max=100"`
	DonorEmail    string  `json:"donor_email" binding:"omitempty,email,max=255"`
	DonorPhone    string  `json:"donor_phone" binding:"omitempty,max=30"`
}

// SiteContactRequest 联系我们
type SiteContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Message string `json:"message" binding:"required,min=5,max=2000"`
}
