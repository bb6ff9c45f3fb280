package user_test

import (
	"testing"
	"time"

	"carematch_server/internal/dao/mysql/mysqltest"
	"carematch_server/internal/dao/mysql/request"
	"carematch_server/internal/dao/mysql/user"
	"carematch_server/internal/model"
	"carematch_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndFind(t *testing.T) {
	db := mysqltest.NewSQLite(t)
	repo := user.NewUserRepository(db)

	u := &model.UserInfo{FullName: "Noa", Email: "noa@example.com", RawPassword: "password1", Role: "user"}
	require.NoError(t, repo.CreateUser(u))
	require.NotZero(t, u.ID)

	got, err := repo.FindByEmail("noa@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.CheckPassword("password1"))
	assert.False(t, got.IsVerified())

	_, err = repo.FindByEmail("nobody@example.com")
	assert.True(t, errorx.IsNotFound(err))

	now := time.Now()
	require.NoError(t, repo.MarkVerified(u.ID, now))
	got, err = repo.FindByID(u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified())
}

func TestDuplicateEmailIsDBError(t *testing.T) {
	db := mysqltest.NewSQLite(t)
	repo := user.NewUserRepository(db)

	require.NoError(t, repo.CreateUser(&model.UserInfo{FullName: "A", Email: "dup@example.com", PasswordHash: "x"}))
	err := repo.CreateUser(&model.UserInfo{FullName: "B", Email: "dup@example.com", PasswordHash: "y"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeDBError, errorx.GetCode(err))
}

func TestListWithRequestCountAndDelete(t *testing.T) {
	db := mysqltest.NewSQLite(t)
	users := user.NewUserRepository(db)
	requests := request.NewRequestRepository(db)

	a := &model.UserInfo{FullName: "A", Email: "a@example.com", PasswordHash: "x"}
	b := &model.UserInfo{FullName: "B", Email: "b@example.com", PasswordHash: "x"}
	require.NoError(t, users.CreateUser(a))
	require.NoError(t, users.CreateUser(b))
	for i := 0; i < 2; i++ {
		require.NoError(t, requests.Create(&model.HelpRequest{
			UserID: a.ID, HelpType: "service", Category: "other", TargetGroup: "general",
			Topic: "other", Region: "east", Title: "t", FullDescription: "d", Status: "open",
		}))
	}

	rows, err := users.ListWithRequestCount(200)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	counts := map[uint]int64{}
	for _, r := range rows {
		counts[r.ID] = r.RequestCount
	}
	assert.EqualValues(t, 2, counts[a.ID])
	assert.EqualValues(t, 0, counts[b.ID])

	require.NoError(t, users.DeleteUser(b.ID))
	_, err = users.FindByID(b.ID)
	assert.True(t, errorx.IsNotFound(err))
}

func TestUpdatePasswordHash(t *testing.T) {
	db := mysqltest.NewSQLite(t)
	repo := user.NewUserRepository(db)

	u := &model.UserInfo{FullName: "C", Email: "c@example.com", RawPassword: "oldpassword"}
	require.NoError(t, repo.CreateUser(u))

	tmp := &model.UserInfo{RawPassword: "newpassword"}
	require.NoError(t, tmp.BeforeSave(nil))
	require.NoError(t, repo.UpdatePasswordHash(u.ID, tmp.PasswordHash))

	got, err := repo.FindByID(u.ID)
	require.NoError(t, err)
	assert.True(t, got.CheckPassword("newpassword"))
	assert.False(t, got.CheckPassword("oldpassword"))
}
