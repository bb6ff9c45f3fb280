package auth

import (
	"context"
	"strings"

	"carematch_server/internal/dao/mysql"
	"carematch_server/internal/dto/request"
	"carematch_server/internal/dto/respond"
	"carematch_server/internal/model"
	"carematch_server/pkg/constants"
	"carematch_server/pkg/errorx"
	"carematch_server/pkg/util/random"

	"go.uber.org/zap"
)

var (
	errInvalidCode     = errorx.New(errorx.CodeInvalidParam, "Invalid code.")
	errCodeExpired     = errorx.New(errorx.CodeInvalidParam, "Code expired.")
	errTooManyAttempts = errorx.New(errorx.CodeTooManyRequests, "Too many attempts.")
)

// Signup 注册第一步：保存待验证记录并发送验证码
// 同一邮箱存在未过期的记录时只换新验证码，返回原 verifyToken
func (s *Service) Signup(ctx context.Context, req request.SignupRequest) (*respond.SignupRespond, error) {
	email := normalizeEmail(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" || len(req.Password) < 8 {
		return nil, errorx.ErrInvalidParam
	}

	if _, err := s.repos.User.FindByEmail(email); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "Signup failed.")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	now := s.now()
	code := random.GetSixDigitCode()
	codeHash, err := hashSecret(code)
	if err != nil {
		zap.L().Error("hash code failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	pending, err := s.repos.Verification.FindPendingByEmail(email, now)
	switch {
	case err == nil:
		if err := s.repos.Verification.RotateCode(pending.ID, codeHash, now.Add(constants.EMAIL_VERIFY_TTL)); err != nil {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
		s.sendCode(ctx, email, code)
		return &respond.SignupRespond{VerifyToken: pending.VerifyToken}, nil
	case !errorx.IsNotFound(err):
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	passwordHash, err := hashSecret(req.Password)
	if err != nil {
		zap.L().Error("hash password failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	v := &model.EmailVerification{
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		CodeHash:     codeHash,
		VerifyToken:  random.GetHexToken(32),
		ExpiresAt:    now.Add(constants.EMAIL_VERIFY_TTL),
	}
	if err := s.repos.Verification.Create(v); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	s.sendCode(ctx, email, code)
	return &respond.SignupRespond{VerifyToken: v.VerifyToken, Created: true}, nil
}

// sendCode 发送失败只记录日志，用户可以重新发送
func (s *Service) sendCode(ctx context.Context, email, code string) {
	if err := s.mailer.SendVerificationCode(ctx, email, code); err != nil {
		zap.L().Error("发送验证码失败", zap.String("email", email), zap.Error(err))
	}
}

// VerifyEmail 校验注册验证码，通过后创建账号并登录
func (s *Service) VerifyEmail(ctx context.Context, req request.VerifyCodeRequest) (*respond.TokenRespond, error) {
	v, err := s.repos.Verification.FindByToken(strings.TrimSpace(req.Token))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errInvalidCode
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	now := s.now()
	if v.UsedAt != nil {
		return nil, errInvalidCode
	}
	if v.Expired(now) {
		return nil, errCodeExpired
	}
	if v.Attempts >= constants.MAX_CODE_ATTEMPTS {
		return nil, errTooManyAttempts
	}
	if err := s.repos.Verification.IncrementAttempts(v.ID); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if !secretMatches(v.CodeHash, strings.TrimSpace(req.Code)) {
		return nil, errInvalidCode
	}

	var user *model.UserInfo
	err = s.repos.Transaction(func(tx *mysql.Repositories) error {
		existing, err := tx.User.FindByEmail(v.Email)
		switch {
		case err == nil:
			if err := tx.User.MarkVerified(existing.ID, now); err != nil {
				return err
			}
			user = existing
		case errorx.IsNotFound(err):
			user = &model.UserInfo{
				FullName:        v.FullName,
				Email:           v.Email,
				PasswordHash:    v.PasswordHash,
				Role:            constants.ROLE_USER,
				AccountType:     "person",
				Region:          "north",
				EmailVerifiedAt: &now,
			}
			if err := tx.User.CreateUser(user); err != nil {
				return err
			}
		default:
			return err
		}
		return tx.Verification.MarkUsed(v.ID, now)
	})
	if err != nil {
		zap.L().Error("完成邮箱验证失败", zap.String("email", v.Email), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return s.issueTokens(ctx, user)
}

// ResendEmailCode 重新发送注册验证码
func (s *Service) ResendEmailCode(ctx context.Context, token string) error {
	v, err := s.repos.Verification.FindByToken(strings.TrimSpace(token))
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeInvalidParam, "Cannot resend.")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if v.UsedAt != nil {
		return errorx.New(errorx.CodeInvalidParam, "Already verified.")
	}
	code := random.GetSixDigitCode()
	codeHash, err := hashSecret(code)
	if err != nil {
		return errorx.ErrServerBusy
	}
	if err := s.repos.Verification.RotateCode(v.ID, codeHash, s.now().Add(constants.EMAIL_VERIFY_TTL)); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	s.sendCode(ctx, v.Email, code)
	return nil
}
