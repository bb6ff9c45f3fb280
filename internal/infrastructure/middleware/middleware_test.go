package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	myredis "carematch_server/internal/dao/redis"
	"carematch_server/pkg/constants"
	"carematch_server/pkg/util/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	tokenID string
	err     error
}

func (v stubValidator) ValidateTokenID(_ context.Context, _ uint, tokenID string) (bool, error) {
	if v.err != nil {
		return false, v.err
	}
	return tokenID == v.tokenID, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(v TokenValidator) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(v), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetUint(CtxUserID), "role": c.GetString(CtxRole)})
	})
	r.GET("/admin", JWTAuth(v), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	jwt.Init("middleware-test-secret-0123456789", 15, 24)
	access, err := jwt.GenerateAccessToken(5, constants.ROLE_USER, "tid-1")
	require.NoError(t, err)
	refresh, err := jwt.GenerateRefreshToken(5, "tid-1")
	require.NoError(t, err)

	r := newAuthRouter(stubValidator{tokenID: "tid-1"})

	w := do(r, "/me", "Bearer "+access)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":5,"role":"user"}`, w.Body.String())

	// WebSocket 场景通过 query 传 token
	w = do(r, "/me?token="+access, "")
	assert.Equal(t, http.StatusOK, w.Code)

	for name, auth := range map[string]string{
		"missing":       "",
		"not bearer":    "Token " + access,
		"garbage":       "Bearer nope",
		"refresh token": "Bearer " + refresh,
	} {
		t.Run(name, func(t *testing.T) {
			w := do(r, "/me", auth)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"code":1006`)
		})
	}

	revoked := newAuthRouter(stubValidator{tokenID: "tid-2"})
	assert.Equal(t, http.StatusUnauthorized, do(revoked, "/me", "Bearer "+access).Code)

	broken := newAuthRouter(stubValidator{err: errors.New("redis down")})
	assert.Equal(t, http.StatusInternalServerError, do(broken, "/me", "Bearer "+access).Code)
}

func TestRequireAdmin(t *testing.T) {
	jwt.Init("middleware-test-secret-0123456789", 15, 24)
	user, err := jwt.GenerateAccessToken(5, constants.ROLE_USER, "tid")
	require.NoError(t, err)
	admin, err := jwt.GenerateAccessToken(1, constants.ROLE_ADMIN, "tid")
	require.NoError(t, err)

	r := newAuthRouter(stubValidator{tokenID: "tid"})
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "Bearer "+user).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", "Bearer "+admin).Code)
}

type brokenCounter struct{}

func (brokenCounter) IncrWithWindow(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := myredis.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 1, 4)
	t.Cleanup(func() { _ = cache.Close() })

	r := gin.New()
	r.POST("/api/auth/login", RateLimit(cache, "auth", 2, 15*time.Minute, FailOpen), func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())
	assert.Equal(t, 15*time.Minute, mr.TTL("rl:auth:ip:10.0.0.7"))

	mr.FastForward(16 * time.Minute)
	assert.Equal(t, http.StatusOK, post())
}

func TestRateLimitFailPolicy(t *testing.T) {
	open := gin.New()
	open.GET("/", RateLimit(brokenCounter{}, "auth", 1, time.Minute, FailOpen), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, do(open, "/", "").Code)

	closed := gin.New()
	closed.GET("/", RateLimit(brokenCounter{}, "auth", 1, time.Minute, FailClosed), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusInternalServerError, do(closed, "/", "").Code)
}

func TestSecure(t *testing.T) {
	r := gin.New()
	r.Use(Secure("care.example", 8443, true, false))
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "/api/health", "")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://care.example:8443/api/health", w.Header().Get("Location"))

	plain := gin.New()
	plain.Use(Secure("care.example", 8443, false, false))
	plain.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = do(plain, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
