package verification_test

import (
	"testing"
	"time"

	"carematch_server/internal/dao/mysql/mysqltest"
	"carematch_server/internal/dao/mysql/verification"
	"carematch_server/internal/model"
	"carematch_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailVerificationLifecycle(t *testing.T) {
	db := mysqltest.NewSQLite(t)
	repo := verification.NewEmailVerificationRepository(db)
	now := time.Now()

	v := &model.EmailVerification{
		Email: "x@example.com", FullName: "X", PasswordHash: "h", CodeHash: "c1",
		VerifyToken: "tok-1", ExpiresAt: now.Add(15 * time.Minute),
	}
	require.NoError(t, repo.Create(v))

	pending, err := repo.FindPendingByEmail("x@example.com", now)
	require.NoError(t, err)
	assert.Equal(t, v.ID, pending.ID)

	require.NoError(t, repo.IncrementAttempts(v.ID))
	require.NoError(t, repo.IncrementAttempts(v.ID))
	got, err := repo.FindByToken("tok-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Attempts)

	require.NoError(t, repo.RotateCode(v.ID, "c2", now.Add(30*time.Minute)))
	got, err = repo.FindByToken("tok-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Attempts)
	assert.Equal(t, "c2", got.CodeHash)

	require.NoError(t, repo.MarkUsed(v.ID, now))
	_, err = repo.FindPendingByEmail("x@example.com", now)
	assert.True(t, errorx.IsNotFound(err))
}

func TestFindPendingSkipsExpired(t *testing.T) {
	db := mysqltest.NewSQLite(t)
	repo := verification.NewEmailVerificationRepository(db)
	now := time.Now()

	require.NoError(t, repo.Create(&model.EmailVerification{
		Email: "old@example.com", FullName: "O", PasswordHash: "h", CodeHash: "c",
		VerifyToken: "tok-old", ExpiresAt: now.Add(-time.Minute),
	}))
	_, err := repo.FindPendingByEmail("old@example.com", now)
	assert.True(t, errorx.IsNotFound(err))
}

func TestMfaAndResetTokens(t *testing.T) {
	db := mysqltest.NewSQLite(t)
	mfa := verification.NewMfaRepository(db)
	reset := verification.NewResetTokenRepository(db)
	now := time.Now()

	c := &model.MfaChallenge{UserID: 3, Channel: "email", CodeHash: "h", MfaToken: "mfa-1", ExpiresAt: now.Add(10 * time.Minute)}
	require.NoError(t, mfa.Create(c))
	require.NoError(t, mfa.Delete(c.ID))
	_, err := mfa.FindByToken("mfa-1")
	assert.True(t, errorx.IsNotFound(err))

	used := &model.PasswordResetToken{UserID: 3, TokenHash: "used", ExpiresAt: now.Add(time.Minute)}
	fresh := &model.PasswordResetToken{UserID: 3, TokenHash: "fresh", ExpiresAt: now.Add(time.Minute)}
	require.NoError(t, reset.Create(used))
	require.NoError(t, reset.Create(fresh))
	require.NoError(t, reset.MarkUsed(used.ID, now))

	require.NoError(t, reset.DeleteUnusedByUser(3))
	_, err = reset.FindByHash("fresh")
	assert.True(t, errorx.IsNotFound(err))
	_, err = reset.FindByHash("used")
	assert.NoError(t, err)
}
