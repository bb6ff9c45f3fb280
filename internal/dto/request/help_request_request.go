package request

// CreateHelpRequest 发布求助
// 使用位置:
//   - internal/handler/request_handler.go: Create
//   - internal/service/request/service.go: Create
type CreateHelpRequest struct {
	HelpType        string   `json:"help_type" binding:"required,oneof=money volunteer service"`
	Category        string   `json:"category" binding:"required,oneof=nursing_home ngo school hospital orphanage private other"`
	TargetGroup     string   `json:"target_group" binding:"required,oneof=elderly children youth families patients refugees general"`
	Topic           string   `json:"topic" binding:"required,oneof=health education arts technology basic_needs social other"`
	Region          string   `json:"region" binding:"required,oneof=north center south jerusalem east"`
	Title           string   `json:"title" binding:"required,max=255"`
	FullDescription string   `json:"full_description" binding:"required"`
	AmountNeeded    *float64 `json:"amount_needed" binding:"omitempty,gt=0"`
	ImageURL        string   `json:"image_url" binding:"omitempty,max=500"`
	ImageSource     string   `json:"image_source" binding:"omitempty,oneof=internal cloudinary ai ai_preset upload"`
	ImageKey        string   `json:"image_key" binding:"omitempty,max=100"`
}

// ListHelpRequest 请求列表过滤条件，均为可选
type ListHelpRequest struct {
	Region   string `form:"region"`
	Topic    string `form:"topic"`
	Category string `form:"category"`
	HelpType string `form:"help_type"`
	Status   string `form:"status"`
	Mine     string `form:"mine"`
}

// ContactOwnerRequest 志愿者认领
// 使用位置:
//   - internal/handler/request_handler.go: Contact
type ContactOwnerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SetStatusRequest 修改请求状态
type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress closed"`
}
