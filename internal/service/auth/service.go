// Package auth 提供认证相关的业务逻辑
// 注册邮箱验证、登录二次验证、Token 签发与刷新、找回密码
package auth

import (
	"context"
	"strconv"
	"time"

	"carematch_server/internal/dao/mysql"
	myredis "carematch_server/internal/dao/redis"
	"carematch_server/internal/dto/respond"
	"carematch_server/internal/infrastructure/mailer"
	"carematch_server/internal/model"
	"carematch_server/pkg/constants"
	"carematch_server/pkg/errorx"
	"carematch_server/pkg/util/jwt"

	"go.uber.org/zap"
)

// Service 认证服务实现
type Service struct {
	repos      *mysql.Repositories
	cache      myredis.CacheService // 缓存服务（依赖倒置）
	mailer     mailer.Mailer
	appBaseURL string
	now        func() time.Time
}

// NewAuthService 创建认证服务实例
// appBaseURL 用于拼接重置密码链接
func NewAuthService(repos *mysql.Repositories, cache myredis.CacheService, m mailer.Mailer, appBaseURL string) *Service {
	return &Service{
		repos:      repos,
		cache:      cache,
		mailer:     m,
		appBaseURL: appBaseURL,
		now:        time.Now,
	}
}

func tokenKey(userID uint) string {
	return constants.USER_TOKEN_KEY_PREFIX + strconv.FormatUint(uint64(userID), 10)
}

// ValidateTokenID 验证用户的 Token ID 是否有效
// 用于实现单点登录互踢机制
func (s *Service) ValidateTokenID(ctx context.Context, userID uint, tokenID string) (bool, error) {
	validTokenID, err := s.cache.Get(ctx, tokenKey(userID))
	if err != nil {
		return false, err
	}
	if validTokenID == "" {
		return false, nil
	}
	return tokenID == validTokenID, nil
}

// issueTokens 签发双 Token，并把 token id 写入 Redis
// 新的登录会覆盖旧的 token id，旧会话随之失效
func (s *Service) issueTokens(ctx context.Context, user *model.UserInfo) (*respond.TokenRespond, error) {
	tokenID := jwt.NewTokenID()
	accessToken, err := jwt.GenerateAccessToken(user.ID, user.Role, tokenID)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, err := jwt.GenerateRefreshToken(user.ID, tokenID)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if err := s.cache.Set(ctx, tokenKey(user.ID), tokenID, jwt.RefreshTokenTTL()); err != nil {
		zap.L().Error("存储 Token ID 到 Redis 失败", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.TokenRespond{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userInfo(user),
	}, nil
}

// Refresh 使用 Refresh Token 换取新的 Access Token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*respond.RefreshRespond, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil || claims.Subject != jwt.SubjectRefreshToken {
		return nil, errorx.New(errorx.CodeUnauthorized, "Invalid refresh token.")
	}
	ok, err := s.ValidateTokenID(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		zap.L().Error("校验 Token ID 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !ok {
		return nil, errorx.New(errorx.CodeUnauthorized, "Session expired.")
	}
	user, err := s.repos.User.FindByID(claims.UserID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrUnauthorized
		}
		return nil, err
	}
	accessToken, err := jwt.GenerateAccessToken(user.ID, user.Role, claims.TokenID)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.RefreshRespond{AccessToken: accessToken}, nil
}

// Me 当前用户信息
func (s *Service) Me(userID uint) (*respond.UserInfo, error) {
	user, err := s.repos.User.FindByID(userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "User not found.")
		}
		return nil, err
	}
	info := userInfo(user)
	return &info, nil
}

// Logout 删除 token id，Access/Refresh Token 一起失效
func (s *Service) Logout(ctx context.Context, userID uint) error {
	if err := s.cache.Delete(ctx, tokenKey(userID)); err != nil {
		zap.L().Error("删除 Token ID 失败", zap.Uint("user_id", userID), zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

func userInfo(u *model.UserInfo) respond.UserInfo {
	return respond.UserInfo{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}
}
