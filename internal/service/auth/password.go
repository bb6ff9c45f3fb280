package auth

import (
	"context"
	"net/url"
	"strings"

	"carematch_server/internal/model"
	"carematch_server/pkg/constants"
	"carematch_server/pkg/errorx"
	"carematch_server/pkg/util/random"

	"go.uber.org/zap"
)

var errInvalidResetLink = errorx.New(errorx.CodeInvalidParam, "Invalid or expired link.")

// ForgotPassword 发送重置密码链接
// 无论邮箱是否存在都返回成功，避免枚举账号
func (s *Service) ForgotPassword(ctx context.Context, email string) {
	email = normalizeEmail(email)
	user, err := s.repos.User.FindByEmail(email)
	if err != nil {
		if !errorx.IsNotFound(err) {
			zap.L().Error(err.Error())
		}
		return
	}
	if !user.IsVerified() {
		return
	}

	if err := s.repos.ResetToken.DeleteUnusedByUser(user.ID); err != nil {
		zap.L().Error(err.Error())
		return
	}
	raw := random.GetHexToken(32)
	t := &model.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: sha256Hex(raw),
		ExpiresAt: s.now().Add(constants.PASSWORD_RESET_TTL),
	}
	if err := s.repos.ResetToken.Create(t); err != nil {
		zap.L().Error(err.Error())
		return
	}

	link := strings.TrimRight(s.appBaseURL, "/") + "/pages/resetPassword.html?token=" + url.QueryEscape(raw)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		zap.L().Error("发送重置密码邮件失败", zap.Uint("user_id", user.ID), zap.Error(err))
		if err := s.repos.ResetToken.Delete(t.ID); err != nil {
			zap.L().Warn("删除重置令牌失败", zap.Uint("id", t.ID), zap.Error(err))
		}
	}
}

// ResetPassword 校验重置令牌并设置新密码，同时注销已有会话
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < 8 {
		return errorx.New(errorx.CodeInvalidParam, "Password must be at least 8 characters.")
	}
	t, err := s.repos.ResetToken.FindByHash(sha256Hex(strings.TrimSpace(token)))
	if err != nil {
		if errorx.IsNotFound(err) {
			return errInvalidResetLink
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	now := s.now()
	if t.UsedAt != nil || t.Expired(now) {
		return errInvalidResetLink
	}
	if t.Attempts >= constants.MAX_CODE_ATTEMPTS {
		return errTooManyAttempts
	}
	if err := s.repos.ResetToken.IncrementAttempts(t.ID); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	hash, err := hashSecret(password)
	if err != nil {
		return errorx.ErrServerBusy
	}
	if err := s.repos.User.UpdatePasswordHash(t.UserID, hash); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if err := s.repos.ResetToken.MarkUsed(t.ID, now); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if err := s.cache.Delete(ctx, tokenKey(t.UserID)); err != nil {
		zap.L().Warn("注销会话失败", zap.Uint("user_id", t.UserID), zap.Error(err))
	}
	return nil
}
