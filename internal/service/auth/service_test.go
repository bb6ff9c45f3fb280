package auth

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"carematch_server/internal/dao/mysql"
	"carematch_server/internal/dao/mysql/mysqltest"
	myredis "carematch_server/internal/dao/redis"
	"carematch_server/internal/dto/request"
	"carematch_server/internal/infrastructure/mailer"
	"carematch_server/internal/model"
	"carematch_server/pkg/errorx"
	"carematch_server/pkg/util/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type captureMailer struct {
	mu     sync.Mutex
	codes  map[string]string
	resets map[string]string
	err    error
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{codes: map[string]string{}, resets: map[string]string{}}
}

func (m *captureMailer) SendVerificationCode(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.codes[to] = code
	return nil
}

func (m *captureMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.resets[to] = resetURL
	return nil
}

func (m *captureMailer) SendVolunteerInterest(context.Context, string, mailer.VolunteerInterest) error {
	return nil
}

type env struct {
	svc    *Service
	db     *gorm.DB
	repos  *mysql.Repositories
	mr     *miniredis.Miniredis
	mailer *captureMailer
	now    time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	bcryptCost = bcrypt.MinCost
	jwt.Init("test-secret-with-enough-length", 15, 24)

	db, repos := mysqltest.NewRepositories(t)
	mr := miniredis.RunT(t)
	cache := myredis.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 1, 10)
	t.Cleanup(func() { _ = cache.Close() })

	e := &env{db: db, repos: repos, mr: mr, mailer: newCaptureMailer(), now: time.Now()}
	e.svc = NewAuthService(repos, cache, e.mailer, "https://care.example/")
	e.svc.now = func() time.Time { return e.now }
	return e
}

func (e *env) signupAndVerify(t *testing.T, email string) {
	t.Helper()
	res, err := e.svc.Signup(context.Background(), request.SignupRequest{FullName: "Noa", Email: email, Password: "password123"})
	require.NoError(t, err)
	_, err = e.svc.VerifyEmail(context.Background(), request.VerifyCodeRequest{Token: res.VerifyToken, Code: e.mailer.codes[normalizeEmail(email)]})
	require.NoError(t, err)
}

func TestSignupAndVerifyEmail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.svc.Signup(ctx, request.SignupRequest{FullName: " Noa ", Email: " Noa@Example.com ", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Len(t, res.VerifyToken, 64)
	code := e.mailer.codes["noa@example.com"]
	require.Len(t, code, 6)

	// 再次注册沿用原令牌并换新验证码
	again, err := e.svc.Signup(ctx, request.SignupRequest{FullName: "Noa", Email: "noa@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.VerifyToken, again.VerifyToken)
	code = e.mailer.codes["noa@example.com"]

	tokens, err := e.svc.VerifyEmail(ctx, request.VerifyCodeRequest{Token: res.VerifyToken, Code: code})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, "noa@example.com", tokens.User.Email)
	assert.Equal(t, "user", tokens.User.Role)

	user, err := e.repos.User.FindByEmail("noa@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsVerified())
	assert.True(t, user.CheckPassword("password123"))

	_, err = e.svc.VerifyEmail(ctx, request.VerifyCodeRequest{Token: res.VerifyToken, Code: code})
	assert.Equal(t, "Invalid code.", err.Error())

	_, err = e.svc.Signup(ctx, request.SignupRequest{FullName: "Noa", Email: "noa@example.com", Password: "password123"})
	assert.True(t, errorx.IsCode(err, errorx.CodeUserExist))
	assert.Equal(t, "Signup failed.", err.Error())

	err = e.svc.ResendEmailCode(ctx, res.VerifyToken)
	assert.Equal(t, "Already verified.", err.Error())
	err = e.svc.ResendEmailCode(ctx, "nope")
	assert.Equal(t, "Cannot resend.", err.Error())
}

func TestVerifyEmailGuards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	res, err := e.svc.Signup(ctx, request.SignupRequest{FullName: "Noa", Email: "noa@example.com", Password: "password123"})
	require.NoError(t, err)

	wrong := "000000"
	if e.mailer.codes["noa@example.com"] == wrong {
		wrong = "111111"
	}
	for i := 0; i < 5; i++ {
		_, err = e.svc.VerifyEmail(ctx, request.VerifyCodeRequest{Token: res.VerifyToken, Code: wrong})
		assert.Equal(t, "Invalid code.", err.Error())
	}
	_, err = e.svc.VerifyEmail(ctx, request.VerifyCodeRequest{Token: res.VerifyToken, Code: e.mailer.codes["noa@example.com"]})
	assert.True(t, errorx.IsCode(err, errorx.CodeTooManyRequests))

	// 重新发送会清零尝试次数
	require.NoError(t, e.svc.ResendEmailCode(ctx, res.VerifyToken))
	e.now = e.now.Add(16 * time.Minute)
	_, err = e.svc.VerifyEmail(ctx, request.VerifyCodeRequest{Token: res.VerifyToken, Code: e.mailer.codes["noa@example.com"]})
	assert.Equal(t, "Code expired.", err.Error())
}

func TestLoginWithMfa(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signupAndVerify(t, "noa@example.com")

	_, err := e.svc.Login(ctx, request.LoginRequest{Email: "noa@example.com", Password: "wrong-password"})
	assert.True(t, errorx.IsCode(err, errorx.CodeInvalidPassword))
	_, err = e.svc.Login(ctx, request.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.Equal(t, "Invalid email or password.", err.Error())

	mfa, err := e.svc.Login(ctx, request.LoginRequest{Email: "NOA@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, mfa.MfaRequired)
	assert.Equal(t, []string{"email"}, mfa.Channels)
	assert.Equal(t, "no***@example.com", mfa.MaskedEmail)

	require.NoError(t, e.svc.ResendMfaCode(ctx, mfa.MfaToken))
	tokens, err := e.svc.VerifyMfa(ctx, request.VerifyCodeRequest{Token: mfa.MfaToken, Code: e.mailer.codes["noa@example.com"]})
	require.NoError(t, err)

	claims, err := jwt.ParseToken(tokens.AccessToken)
	require.NoError(t, err)
	ok, err := e.svc.ValidateTokenID(ctx, claims.UserID, claims.TokenID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = e.svc.VerifyMfa(ctx, request.VerifyCodeRequest{Token: mfa.MfaToken, Code: e.mailer.codes["noa@example.com"]})
	assert.Equal(t, "Invalid code.", err.Error())
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	e := newEnv(t)
	u := &model.UserInfo{FullName: "Old", Email: "old@example.com", RawPassword: "password123"}
	require.NoError(t, e.repos.User.CreateUser(u))

	_, err := e.svc.Login(context.Background(), request.LoginRequest{Email: "old@example.com", Password: "password123"})
	assert.True(t, errorx.IsCode(err, errorx.CodeEmailNotVerified))
}

func TestLoginMailFailureDropsChallenge(t *testing.T) {
	e := newEnv(t)
	e.signupAndVerify(t, "noa@example.com")
	e.mailer.err = errors.New("smtp down")

	_, err := e.svc.Login(context.Background(), request.LoginRequest{Email: "noa@example.com", Password: "password123"})
	assert.True(t, errorx.IsCode(err, errorx.CodeNotificationFailed))
	assert.Equal(t, "Could not send verification code. Please try again.", err.Error())
}

func TestNewLoginReplacesSessionAndLogout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signupAndVerify(t, "noa@example.com")

	login := func() (string, string) {
		mfa, err := e.svc.Login(ctx, request.LoginRequest{Email: "noa@example.com", Password: "password123"})
		require.NoError(t, err)
		tokens, err := e.svc.VerifyMfa(ctx, request.VerifyCodeRequest{Token: mfa.MfaToken, Code: e.mailer.codes["noa@example.com"]})
		require.NoError(t, err)
		return tokens.AccessToken, tokens.RefreshToken
	}
	firstAccess, firstRefresh := login()
	_, secondRefresh := login()

	claims, err := jwt.ParseToken(firstAccess)
	require.NoError(t, err)
	ok, err := e.svc.ValidateTokenID(ctx, claims.UserID, claims.TokenID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.svc.Refresh(ctx, firstRefresh)
	assert.True(t, errorx.IsCode(err, errorx.CodeUnauthorized))
	refreshed, err := e.svc.Refresh(ctx, secondRefresh)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = e.svc.Refresh(ctx, firstAccess)
	assert.True(t, errorx.IsCode(err, errorx.CodeUnauthorized), "access token is not a refresh token")

	me, err := e.svc.Me(claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "noa@example.com", me.Email)

	require.NoError(t, e.svc.Logout(ctx, claims.UserID))
	_, err = e.svc.Refresh(ctx, secondRefresh)
	assert.True(t, errorx.IsCode(err, errorx.CodeUnauthorized))
}

func TestPasswordForgotAndReset(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signupAndVerify(t, "noa@example.com")
	user, err := e.repos.User.FindByEmail("noa@example.com")
	require.NoError(t, err)

	e.svc.ForgotPassword(ctx, "ghost@example.com")
	assert.Empty(t, e.mailer.resets)

	e.svc.ForgotPassword(ctx, " NOA@example.com ")
	link := e.mailer.resets["noa@example.com"]
	require.NotEmpty(t, link)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/pages/resetPassword.html", u.Path)
	token := u.Query().Get("token")
	require.Len(t, token, 64)

	assert.Error(t, e.svc.ResetPassword(ctx, token, "short"))
	assert.Equal(t, errInvalidResetLink, e.svc.ResetPassword(ctx, "bogus", "newpassword1"))

	require.NoError(t, e.svc.ResetPassword(ctx, token, "newpassword1"))
	updated, err := e.repos.User.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, updated.CheckPassword("newpassword1"))
	assert.False(t, e.mr.Exists(tokenKey(user.ID)), "sessions revoked")

	assert.Equal(t, errInvalidResetLink, e.svc.ResetPassword(ctx, token, "another-pass"))
}

func TestPasswordResetMailFailureDeletesToken(t *testing.T) {
	e := newEnv(t)
	e.signupAndVerify(t, "noa@example.com")
	e.mailer.err = errors.New("smtp down")

	e.svc.ForgotPassword(context.Background(), "noa@example.com")

	var count int64
	require.NoError(t, e.db.Model(&model.PasswordResetToken{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "ab***@x.org", maskEmail("abcdef@x.org"))
	assert.Equal(t, "a***@x.org", maskEmail("a@x.org"))
	assert.Equal(t, "***", maskEmail("nope"))
}
