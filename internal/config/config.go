// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找；敏感字段可由 .env / 环境变量覆盖
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
	"github.com/joho/godotenv"   // .env 文件加载
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName    string `toml:"appName"`    // 应用名称，用于日志标识等
	Host       string `toml:"host"`       // 服务器监听地址，如 "0.0.0.0"
	Port       int    `toml:"port"`       // 服务器监听端口，如 3000
	Mode       string `toml:"mode"`       // 运行模式：dev / release
	AppBaseURL string `toml:"appBaseUrl"` // 前端访问地址，用于拼接重置密码链接
	EnableTLS  bool   `toml:"enableTls"`  // 是否开启 HTTPS 重定向
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`         // MySQL 服务器地址
	Port         int    `toml:"port"`         // MySQL 端口，默认 3306
	User         string `toml:"user"`         // 数据库用户名
	Password     string `toml:"password"`     // 数据库密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 请求状态事件总线配置
type KafkaConfig struct {
	MessageMode    string        `toml:"messageMode"`    // 消息模式："channel" 或 "kafka"
	HostPort       string        `toml:"hostPort"`       // Kafka 服务器地址，如 "localhost:9092"
	LifecycleTopic string        `toml:"lifecycleTopic"` // 请求状态事件主题
	GroupID        string        `toml:"groupId"`        // 消费者组
	Timeout        time.Duration `toml:"timeout"`        // 超时时间（秒）
}

// StaticSrcConfig 静态资源路径配置
type StaticSrcConfig struct {
	UploadPath   string `toml:"uploadPath"`   // 上传文件根目录，对外映射为 /uploads
	FrontendPath string `toml:"frontendPath"` // 前端静态页面目录，为空则不挂载
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret"`             // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // Refresh Token 有效期（小时）
}

// SmtpConfig 邮件发送配置
type SmtpConfig struct {
	Mode     string `toml:"mode"`     // smtp：真实发送；log：只写日志（本地开发）
	Host     string `toml:"host"`     // SMTP 服务器
	Port     int    `toml:"port"`     // 465 一般配合 tls，587 一般配合 starttls
	User     string `toml:"user"`     // 登录用户
	Password string `toml:"password"` // 登录密码
	From     string `toml:"from"`     // 发件人，留空使用 User
	TLSMode  string `toml:"tlsMode"`  // tls / starttls / none
}

// RateLimitConfig 认证接口限流配置
type RateLimitConfig struct {
	AuthMax       int  `toml:"authMax"`       // /api/auth 每窗口最大请求数
	ResetMax      int  `toml:"resetMax"`      // 找回/重置密码每窗口最大请求数
	WindowMinutes int  `toml:"windowMinutes"` // 窗口长度（分钟）
	FailClosed    bool `toml:"failClosed"`    // Redis 不可用时是否拒绝请求
}

// CorsConfig 跨域配置
type CorsConfig struct {
	AllowOrigins []string `toml:"allowOrigins"`
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	StaticSrcConfig `toml:"staticSrcConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SmtpConfig      `toml:"smtpConfig"`
	RateLimitConfig `toml:"rateLimitConfig"`
	CorsConfig      `toml:"corsConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",       // 本地开发配置（优先）
		"configs/config.toml",             // 默认配置
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",
	}

	for _, path := range paths {
		if cfg, err := LoadConfigFrom(path); err == nil {
			config = cfg
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// LoadConfigFrom 读取指定路径的配置文件，并叠加默认值和环境变量
func LoadConfigFrom(path string) (*Config, error) {
	cfg := new(Config)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件；找不到文件时使用默认值 + 环境变量
func GetConfig() *Config {
	if config == nil {
		if err := LoadConfig(); err != nil {
			config = new(Config)
			config.applyDefaults()
			config.applyEnv()
		}
	}
	return config
}

// applyDefaults 填充未配置的字段
func (c *Config) applyDefaults() {
	if c.MainConfig.AppName == "" {
		c.MainConfig.AppName = "carematch"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 3000
	}
	if c.MainConfig.Mode == "" {
		c.MainConfig.Mode = "dev"
	}
	if c.MainConfig.AppBaseURL == "" {
		c.MainConfig.AppBaseURL = "http://localhost:3000"
	}
	if c.KafkaConfig.MessageMode == "" {
		c.KafkaConfig.MessageMode = "channel"
	}
	if c.KafkaConfig.LifecycleTopic == "" {
		c.KafkaConfig.LifecycleTopic = "carematch.request.lifecycle"
	}
	if c.KafkaConfig.GroupID == "" {
		c.KafkaConfig.GroupID = "carematch"
	}
	if c.KafkaConfig.Timeout == 0 {
		c.KafkaConfig.Timeout = 1
	}
	if c.StaticSrcConfig.UploadPath == "" {
		c.StaticSrcConfig.UploadPath = "./uploads"
	}
	if c.SmtpConfig.Mode == "" {
		c.SmtpConfig.Mode = "log"
	}
	if c.SmtpConfig.Port == 0 {
		c.SmtpConfig.Port = 587
	}
	if c.SmtpConfig.TLSMode == "" {
		c.SmtpConfig.TLSMode = "starttls"
	}
	if c.RateLimitConfig.AuthMax == 0 {
		c.RateLimitConfig.AuthMax = 20
	}
	if c.RateLimitConfig.ResetMax == 0 {
		c.RateLimitConfig.ResetMax = 8
	}
	if c.RateLimitConfig.WindowMinutes == 0 {
		c.RateLimitConfig.WindowMinutes = 15
	}
	if len(c.CorsConfig.AllowOrigins) == 0 {
		c.CorsConfig.AllowOrigins = []string{"*"}
	}
}

// applyEnv 用 .env 和环境变量覆盖敏感配置
// .env 不存在时忽略
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	setString(&c.MysqlConfig.Password, "MYSQL_PASSWORD")
	setString(&c.MysqlConfig.Host, "MYSQL_HOST")
	setString(&c.RedisConfig.Password, "REDIS_PASSWORD")
	setString(&c.JWTConfig.Secret, "JWT_SECRET")
	setString(&c.SmtpConfig.Host, "SMTP_HOST")
	setString(&c.SmtpConfig.User, "SMTP_USER")
	setString(&c.SmtpConfig.Password, "SMTP_PASS")
	setString(&c.SmtpConfig.From, "MAIL_FROM")
	setString(&c.MainConfig.AppBaseURL, "APP_BASE_URL")
	setInt(&c.MysqlConfig.Port, "MYSQL_PORT")
	setInt(&c.SmtpConfig.Port, "SMTP_PORT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
