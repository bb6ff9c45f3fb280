package respond

// SignupRespond 注册响应
// 使用位置:
//   - internal/service/auth/service.go: Signup
type SignupRespond struct {
	VerifyToken string `json:"verifyToken"`
	// Created 为 false 表示沿用了未过期的验证记录
	Created bool `json:"-"`
}

// TokenRespond 登录成功后签发的令牌
type TokenRespond struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         UserInfo `json:"user"`
}

// UserInfo 当前用户
type UserInfo struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// MfaRespond 登录第一步的响应
type MfaRespond struct {
	MfaRequired bool     `json:"mfaRequired"`
	MfaToken    string   `json:"mfaToken"`
	Channels    []string `json:"channels"`
	MaskedEmail string   `json:"maskedEmail"`
}

// RefreshRespond 刷新 Access Token 响应
type RefreshRespond struct {
	AccessToken string `json:"access_token"`
}
