package auth

import (
	"context"
	"strings"

	"carematch_server/internal/dto/request"
	"carematch_server/internal/dto/respond"
	"carematch_server/internal/model"
	"carematch_server/pkg/constants"
	"carematch_server/pkg/errorx"
	"carematch_server/pkg/util/random"

	"go.uber.org/zap"
)

const channelEmail = "email"

// Login 密码校验通过后发起邮箱二次验证
func (s *Service) Login(ctx context.Context, req request.LoginRequest) (*respond.MfaRespond, error) {
	email := normalizeEmail(req.Email)
	user, err := s.repos.User.FindByEmail(email)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeInvalidPassword, "Invalid email or password.")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "Invalid email or password.")
	}
	if !user.IsVerified() {
		return nil, errorx.New(errorx.CodeEmailNotVerified, "Please verify your email first.")
	}

	code := random.GetSixDigitCode()
	codeHash, err := hashSecret(code)
	if err != nil {
		return nil, errorx.ErrServerBusy
	}
	// 同一用户只保留最新的挑战
	if err := s.repos.Mfa.DeleteByUser(user.ID); err != nil {
		zap.L().Warn("清理旧的二次验证失败", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	challenge := &model.MfaChallenge{
		UserID:    user.ID,
		Channel:   channelEmail,
		CodeHash:  codeHash,
		MfaToken:  random.GetHexToken(32),
		ExpiresAt: s.now().Add(constants.MFA_CHALLENGE_TTL),
	}
	if err := s.repos.Mfa.Create(challenge); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	if err := s.mailer.SendVerificationCode(ctx, user.Email, code); err != nil {
		zap.L().Error("发送登录验证码失败", zap.Uint("user_id", user.ID), zap.Error(err))
		if err := s.repos.Mfa.Delete(challenge.ID); err != nil {
			zap.L().Warn("删除二次验证失败", zap.Uint("id", challenge.ID), zap.Error(err))
		}
		return nil, errorx.New(errorx.CodeNotificationFailed, "Could not send verification code. Please try again.")
	}

	return &respond.MfaRespond{
		MfaRequired: true,
		MfaToken:    challenge.MfaToken,
		Channels:    []string{channelEmail},
		MaskedEmail: maskEmail(user.Email),
	}, nil
}

// VerifyMfa 校验登录验证码并签发 Token
func (s *Service) VerifyMfa(ctx context.Context, req request.VerifyCodeRequest) (*respond.TokenRespond, error) {
	c, err := s.repos.Mfa.FindByToken(strings.TrimSpace(req.Token))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errInvalidCode
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	now := s.now()
	if c.UsedAt != nil {
		return nil, errInvalidCode
	}
	if c.Expired(now) {
		return nil, errCodeExpired
	}
	if c.Attempts >= constants.MAX_CODE_ATTEMPTS {
		return nil, errTooManyAttempts
	}
	if err := s.repos.Mfa.IncrementAttempts(c.ID); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if !secretMatches(c.CodeHash, strings.TrimSpace(req.Code)) {
		return nil, errInvalidCode
	}
	if err := s.repos.Mfa.MarkUsed(c.ID, now); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	user, err := s.repos.User.FindByID(c.UserID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errInvalidCode
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return s.issueTokens(ctx, user)
}

// ResendMfaCode 重新发送登录验证码
func (s *Service) ResendMfaCode(ctx context.Context, token string) error {
	c, err := s.repos.Mfa.FindByToken(strings.TrimSpace(token))
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeInvalidParam, "Cannot resend.")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if c.UsedAt != nil {
		return errorx.New(errorx.CodeInvalidParam, "Already verified.")
	}
	user, err := s.repos.User.FindByID(c.UserID)
	if err != nil {
		return errorx.New(errorx.CodeInvalidParam, "Cannot resend.")
	}

	code := random.GetSixDigitCode()
	codeHash, err := hashSecret(code)
	if err != nil {
		return errorx.ErrServerBusy
	}
	if err := s.repos.Mfa.RotateCode(c.ID, codeHash, s.now().Add(constants.MFA_CHALLENGE_TTL)); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if err := s.mailer.SendVerificationCode(ctx, user.Email, code); err != nil {
		zap.L().Error("发送登录验证码失败", zap.Uint("user_id", user.ID), zap.Error(err))
		return errorx.New(errorx.CodeNotificationFailed, "Could not send verification code. Please try again.")
	}
	return nil
}
