package model

import (
	"time"

	"carematch_server/pkg/enum/request_enum"

	"gorm.io/gorm"
)

// HelpRequest 求助请求
// 对应数据库 requests 表
// pending_volunteer_* 五列只在 status = in_progress 时有值
type HelpRequest struct {
	gorm.Model

	UserID uint `gorm:"column:user_id;index;not null;comment:发布者"`

	HelpType    string `gorm:"column:help_type;type:varchar(20);not null;comment:求助类型"`
	Category    string `gorm:"column:category;type:varchar(20);not null;comment:机构类别"`
	TargetGroup string `gorm:"column:target_group;type:varchar(20);not null;comment:受助人群"`
	Topic       string `gorm:"column:topic;type:varchar(20);not null;comment:主题"`
	Region      string `gorm:"column:region;type:varchar(20);index;not null;comment:地区"`

	Title           string `gorm:"column:title;type:varchar(255);not null;comment:标题"`
	ShortSummary    string `gorm:"column:short_summary;type:varchar(160);comment:摘要"`
	FullDescription string `gorm:"column:full_description;type:text;not null;comment:描述"`

	AmountNeeded   *float64 `gorm:"column:amount_needed;type:decimal(12,2);comment:所需金额"`
	IsMoneyRequest bool     `gorm:"column:is_money_request;not null;default:false;comment:是否为资金求助"`

	ImageURL    *string `gorm:"column:image_url;type:varchar(500);comment:图片地址"`
	ImageSource *string `gorm:"column:image_source;type:varchar(20);comment:图片来源"`
	ImageKey    *string `gorm:"column:image_key;type:varchar(100);comment:图片标识"`

	Status string `gorm:"column:status;type:varchar(20);index;not null;default:open;comment:状态 open/in_progress/closed"`

	PendingVolunteerName  *string    `gorm:"column:pending_volunteer_name;type:varchar(100);comment:志愿者姓名"`
	PendingVolunteerEmail *string    `gorm:"column:pending_volunteer_email;type:varchar(255);comment:志愿者邮箱"`
	PendingVolunteerPhone *string    `gorm:"column:pending_volunteer_phone;type:varchar(30);comment:志愿者电话"`
	PendingVolunteerMsg   *string    `gorm:"column:pending_volunteer_msg;type:text;comment:志愿者留言"`
	PendingVolunteerAt    *time.Time `gorm:"column:pending_volunteer_at;comment:认领时间"`
}

// TableName 指定表名
func (HelpRequest) TableName() string {
	return "requests"
}

// PendingContact 认领人联系方式
type PendingContact struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// Pending 返回当前认领信息，未被认领时返回 nil
func (r *HelpRequest) Pending() *PendingContact {
	if r.PendingVolunteerAt == nil {
		return nil
	}
	return &PendingContact{
		Name:      deref(r.PendingVolunteerName),
		Email:     deref(r.PendingVolunteerEmail),
		Phone:     deref(r.PendingVolunteerPhone),
		Message:   deref(r.PendingVolunteerMsg),
		ClaimedAt: *r.PendingVolunteerAt,
	}
}

// IsOwnedBy 是否为发布者
func (r *HelpRequest) IsOwnedBy(userID uint) bool {
	return r.UserID == userID
}

// PendingFields 认领时写入的列
func PendingFields(c PendingContact) map[string]any {
	return map[string]any{
		"status":                  request_enum.StatusInProgress,
		"pending_volunteer_name":  c.Name,
		"pending_volunteer_email": c.Email,
		"pending_volunteer_phone": c.Phone,
		"pending_volunteer_msg":   c.Message,
		"pending_volunteer_at":    c.ClaimedAt,
	}
}

// ClearPendingFields 切换到 status 并清空认领信息
func ClearPendingFields(status string) map[string]any {
	return map[string]any{
		"status":                  status,
		"pending_volunteer_name":  nil,
		"pending_volunteer_email": nil,
		"pending_volunteer_phone": nil,
		"pending_volunteer_msg":   nil,
		"pending_volunteer_at":    nil,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
