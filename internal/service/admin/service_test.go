package admin

import (
	"context"
	"strconv"
	"testing"
	"time"

	"carematch_server/internal/dao/mysql/mysqltest"
	myredis "carematch_server/internal/dao/redis"
	"carematch_server/internal/model"
	"carematch_server/pkg/constants"
	"carematch_server/pkg/errorx"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (*myredis.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := myredis.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 1, 10)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func seedUser(t *testing.T, svc *adminService, email, role string) *model.UserInfo {
	t.Helper()
	u := &model.UserInfo{FullName: email, Email: email, RawPassword: "password123", Role: role}
	require.NoError(t, svc.repos.User.CreateUser(u))
	return u
}

func seedRequest(t *testing.T, svc *adminService, owner uint, region string) {
	t.Helper()
	r := &model.HelpRequest{UserID: owner, HelpType: "service", Category: "ngo", TargetGroup: "general",
		Topic: "health", Region: region, Title: "t", FullDescription: "d", Status: "open"}
	require.NoError(t, svc.repos.Request.Create(r))
}

func TestMetricsAndCharts(t *testing.T) {
	_, repos := mysqltest.NewRepositories(t)
	cache, _ := newCache(t)
	svc := NewAdminService(repos, cache)
	u := seedUser(t, svc, "a@example.com", constants.ROLE_USER)
	seedRequest(t, svc, u.ID, "north")
	seedRequest(t, svc, u.ID, "north")
	seedRequest(t, svc, u.ID, "south")
	require.NoError(t, repos.Donation.Create(&model.Donation{UserID: u.ID, DonationType: model.DonationTypeMoney, Amount: 100}))
	require.NoError(t, repos.Donation.Create(&model.Donation{UserID: u.ID, DonationType: model.DonationTypeTime, Amount: 7}))
	require.NoError(t, repos.Donation.CreateGuest(&model.GuestDonation{Amount: 20, PaymentMethod: "bit", Status: model.GuestDonationDemoSuccess}))

	m, err := svc.Metrics()
	require.NoError(t, err)
	assert.InDelta(t, 120, m.TotalDonations, 0.001)
	assert.Equal(t, int64(3), m.TotalRequests)
	assert.Equal(t, 14, m.TotalOrganizations)

	regions, err := svc.RequestsByRegion()
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "north", regions[0].Region)
	assert.Equal(t, int64(2), regions[0].Count)

	months, err := svc.DonationsByMonth()
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.InDelta(t, 120, months[0].Total, 0.001)
	assert.Len(t, months[0].Month, 7)

	users, err := svc.Users()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(3), users[0].RequestCount)
}

func TestDeleteUser(t *testing.T) {
	_, repos := mysqltest.NewRepositories(t)
	cache, mr := newCache(t)
	svc := NewAdminService(repos, cache)
	admin := seedUser(t, svc, "admin@example.com", constants.ROLE_ADMIN)
	other := seedUser(t, svc, "other-admin@example.com", constants.ROLE_ADMIN)
	u := seedUser(t, svc, "u@example.com", constants.ROLE_USER)
	seedRequest(t, svc, u.ID, "east")
	require.NoError(t, repos.Donation.Create(&model.Donation{UserID: u.ID, DonationType: model.DonationTypeMoney, Amount: 5}))

	tests := []struct {
		target uint
		msg    string
		code   int
	}{
		{0, "Bad id.", errorx.CodeInvalidParam},
		{admin.ID, "You can't delete your own account.", errorx.CodeInvalidParam},
		{9999, "User not found.", errorx.CodeNotFound},
		{other.ID, "Cannot delete admin.", errorx.CodeInvalidParam},
	}
	for _, tt := range tests {
		err := svc.DeleteUser(admin.ID, tt.target)
		require.Error(t, err)
		assert.Equal(t, tt.msg, err.Error())
		assert.True(t, errorx.IsCode(err, tt.code))
	}

	tokenKey := constants.USER_TOKEN_KEY_PREFIX + strconv.FormatUint(uint64(u.ID), 10)
	require.NoError(t, cache.Set(context.Background(), tokenKey, "tid", time.Hour))

	require.NoError(t, svc.DeleteUser(admin.ID, u.ID))
	// Close 等待异步任务执行完
	require.NoError(t, cache.Close())
	assert.False(t, mr.Exists(tokenKey))
	_, err := repos.User.FindByID(u.ID)
	assert.True(t, errorx.IsNotFound(err))
	total, err := repos.Request.Count()
	require.NoError(t, err)
	assert.Zero(t, total)
	sum, err := repos.Donation.SumMoney()
	require.NoError(t, err)
	assert.Zero(t, sum)
}
