// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
package service

import (
	"context"
	"mime/multipart"

	"carematch_server/internal/dto/request"
	"carematch_server/internal/dto/respond"
	"carematch_server/internal/service/lifecycle"
)

// LifecycleService 求助请求状态机
// 认领、接受、拒绝
type LifecycleService interface {
	// Claim 志愿者认领 open 状态的请求并通知发布者
	Claim(ctx context.Context, requestID uint, actor lifecycle.Identity, payload lifecycle.ContactPayload) (string, error)
	// Accept 发布者接受认领，请求关闭
	Accept(ctx context.Context, requestID uint, actor lifecycle.Identity) (string, error)
	// Reject 发布者拒绝认领，请求重新开放
	Reject(ctx context.Context, requestID uint, actor lifecycle.Identity) (string, error)
}

// RequestService 求助请求业务接口
type RequestService interface {
	// Create 发布求助，返回新请求 id
	Create(ownerID uint, req request.CreateHelpRequest) (uint, error)
	// List 按条件查询请求
	List(actor lifecycle.Identity, q request.ListHelpRequest) ([]respond.HelpRequestRespond, error)
	// SetStatus 发布者或管理员修改状态
	SetStatus(ctx context.Context, requestID uint, actor lifecycle.Identity, status string) (string, error)
}

// AuthService 账号与认证业务接口
type AuthService interface {
	Signup(ctx context.Context, req request.SignupRequest) (*respond.SignupRespond, error)
	VerifyEmail(ctx context.Context, req request.VerifyCodeRequest) (*respond.TokenRespond, error)
	ResendEmailCode(ctx context.Context, token string) error
	Login(ctx context.Context, req request.LoginRequest) (*respond.MfaRespond, error)
	VerifyMfa(ctx context.Context, req request.VerifyCodeRequest) (*respond.TokenRespond, error)
	ResendMfaCode(ctx context.Context, token string) error
	Refresh(ctx context.Context, refreshToken string) (*respond.RefreshRespond, error)
	Me(userID uint) (*respond.UserInfo, error)
	Logout(ctx context.Context, userID uint) error
	// ForgotPassword 总是成功，不暴露邮箱是否存在
	ForgotPassword(ctx context.Context, email string)
	ResetPassword(ctx context.Context, token, password string) error
	// ValidateTokenID 校验 token id 是否为当前有效会话
	ValidateTokenID(ctx context.Context, userID uint, tokenID string) (bool, error)
}

// DonationService 访客捐赠业务接口
type DonationService interface {
	CreateGuest(req request.GuestDonationRequest) (*respond.GuestDonationRespond, error)
	Stats() (*respond.GuestDonationStatsRespond, error)
}

// AdminService 管理后台业务接口
type AdminService interface {
	Metrics() (*respond.AdminMetricsRespond, error)
	Users() ([]respond.AdminUserRespond, error)
	DonationsByMonth() ([]respond.MonthlyDonationRespond, error)
	RequestsByRegion() ([]respond.RegionCountRespond, error)
	DeleteUser(actorID, targetID uint) error
}

// UploadService 图片上传
type UploadService interface {
	SaveImage(userID uint, fileHeader *multipart.FileHeader) (*respond.UploadImageRespond, error)
}
