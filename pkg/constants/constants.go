package constants

import "time"

const (
	CHANNEL_SIZE               = 100             // 事件通道大小
	UPLOAD_IMAGE_MAX_SIZE      = 2 * 1024 * 1024 // 上传图片最大字节数（2MB）
	REDIS_TIMEOUT              = 1               // redis 连接超时（秒）
	LIST_LIMIT                 = 200             // 列表接口最大返回条数
	MAX_CODE_ATTEMPTS          = 5               // 验证码/重置链接最大尝试次数
	TOTAL_ORGANIZATIONS        = 14              // 合作机构数量（后台展示用）
)

const (
	EMAIL_VERIFY_TTL   = 15 * time.Minute // 注册验证码有效期
	MFA_CHALLENGE_TTL  = 10 * time.Minute // 登录二次验证码有效期
	PASSWORD_RESET_TTL = 15 * time.Minute // 重置密码链接有效期
)

// Redis key 前缀
const (
	USER_TOKEN_KEY_PREFIX = "user_token:" // 当前有效的 token id
	RATE_LIMIT_KEY_PREFIX = "rl:"         // 限流计数
)

// 角色
const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"
)
