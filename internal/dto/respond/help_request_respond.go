package respond

import "time"

// CreatedRespond 创建成功，返回新记录 id
type CreatedRespond struct {
	ID uint `json:"id"`
}

// StatusRespond 状态流转结果
// 使用位置:
//   - internal/handler/request_handler.go: Contact, Accept, Reject, SetStatus
type StatusRespond struct {
	Status string `json:"status"`
}

// PendingContactRespond 认领人联系方式，仅对发布者和管理员可见
type PendingContactRespond struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// HelpRequestRespond 列表项
type HelpRequestRespond struct {
	ID              uint                   `json:"id"`
	UserID          uint                   `json:"user_id"`
	HelpType        string                 `json:"help_type"`
	Category        string                 `json:"category"`
	TargetGroup     string                 `json:"target_group"`
	Topic           string                 `json:"topic"`
	Region          string                 `json:"region"`
	Title           string                 `json:"title"`
	ShortSummary    string                 `json:"short_summary"`
	FullDescription string                 `json:"full_description"`
	AmountNeeded    *float64               `json:"amount_needed"`
	IsMoneyRequest  bool                   `json:"is_money_request"`
	ImageURL        *string                `json:"image_url"`
	ImageSource     *string                `json:"image_source"`
	ImageKey        *string                `json:"image_key"`
	Status          string                 `json:"status"`
	CreatedAt       time.Time              `json:"created_at"`
	PendingContact  *PendingContactRespond `json:"pending_contact,omitempty"`
}

// UploadImageRespond 图片上传结果
type UploadImageRespond struct {
	ImageURL    string `json:"image_url"`
	ImageSource string `json:"image_source"`
	ImageKey    string `json:"image_key"`
}
