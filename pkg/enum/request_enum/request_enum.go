// Package request_enum 定义求助请求的枚举取值
package request_enum

// 请求状态
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusClosed     = "closed"
)

// 求助类型
const (
	HelpTypeMoney     = "money"
	HelpTypeVolunteer = "volunteer"
	HelpTypeService   = "service"
)

// 图片来源
const (
	ImageSourceInternal   = "internal"
	ImageSourceCloudinary = "cloudinary"
	ImageSourceAI         = "ai"
)

var (
	HelpTypes    = []string{HelpTypeMoney, HelpTypeVolunteer, HelpTypeService}
	Categories   = []string{"nursing_home", "ngo", "school", "hospital", "orphanage", "private", "other"}
	TargetGroups = []string{"elderly", "children", "youth", "families", "patients", "refugees", "general"}
	Topics       = []string{"health", "education", "arts", "technology", "basic_needs", "social", "other"}
	Regions      = []string{"north", "center", "south", "jerusalem", "east"}
	Statuses     = []string{StatusOpen, StatusInProgress, StatusClosed}
	ImageSources = []string{ImageSourceInternal, ImageSourceCloudinary, ImageSourceAI}
)

// Contains 判断取值是否在允许列表中
func Contains(allowed []string, v string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

// NormalizeImageSource 兼容前端的旧取值：ai_preset -> ai，upload -> internal
func NormalizeImageSource(src string) string {
	switch src {
	case "ai_preset":
		return ImageSourceAI
	case "upload":
		return ImageSourceInternal
	}
	return src
}
