package redis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"carematch_server/pkg/errorx"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 2, 10)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestSetGetDelete(t *testing.T) {
	rc, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "user_token:1", "abc", time.Minute))
	v, err := rc.Get(ctx, "user_token:1")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
	assert.Equal(t, time.Minute, mr.TTL("user_token:1"))

	require.NoError(t, rc.Delete(ctx, "user_token:1"))
	v, err = rc.Get(ctx, "user_token:1")
	require.NoError(t, err)
	assert.Empty(t, v)

	// 删除不存在的键不报错
	assert.NoError(t, rc.Delete(ctx, "missing"))
}

func TestIncrWithWindow(t *testing.T) {
	rc, mr := newTestCache(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := rc.IncrWithWindow(ctx, "rl:auth:ip:1.2.3.4", 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	assert.Equal(t, 15*time.Minute, mr.TTL("rl:auth:ip:1.2.3.4"))

	mr.FastForward(16 * time.Minute)
	n, err := rc.IncrWithWindow(ctx, "rl:auth:ip:1.2.3.4", 15*time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCacheErrorWhenServerDown(t *testing.T) {
	rc, mr := newTestCache(t)
	mr.Close()

	_, err := rc.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeCacheError, errorx.GetCode(err))
}

func TestSubmitTaskRunsAndSurvivesPanic(t *testing.T) {
	rc, _ := newTestCache(t)

	var ran atomic.Int32
	rc.SubmitTask(func() { panic("boom") })
	for i := 0; i < 5; i++ {
		rc.SubmitTask(func() { ran.Add(1) })
	}
	require.NoError(t, rc.Close())
	assert.EqualValues(t, 5, ran.Load())
}
