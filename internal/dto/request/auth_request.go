package request

// SignupRequest 注册请求
// 使用位置:
//   - internal/handler/auth_handler.go: Signup
//   - internal/service/auth/service.go: Signup
type SignupRequest struct {
	FullName string `json:"full_name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// VerifyCodeRequest 邮箱验证 / 登录二次验证
type VerifyCodeRequest struct {
	Token string `json:"token" binding:"required"`
	Code  string `json:"code" binding:"required,otp"`
}

// ResendCodeRequest 重新发送验证码
type ResendCodeRequest struct {
	Token string `json:"token" binding:"required"`
}

// LoginRequest 邮箱密码登录
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新 Access Token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// PasswordForgotRequest 找回密码
type PasswordForgotRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetRequest 重置密码
type PasswordResetRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}
