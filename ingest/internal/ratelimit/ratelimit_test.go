package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimiter(t *testing.T, limit int, window time.Duration) *RedisLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisLimiter(rdb, limit, window)
}

func TestRedisLimiter_EnforcesLimit(t *testing.T) {
	l := testLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "user:1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, err := l.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	l := testLimiter(t, 1, time.Minute)
	ctx := context.Background()

	allowed, err := l.Allow(ctx, "user:1")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = l.Allow(ctx, "user:2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestNoOpLimiter(t *testing.T) {
	allowed, err := NoOpLimiter{}.Allow(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMiddleware_Returns429(t *testing.T) {
	l := testLimiter(t, 1, time.Minute)
	handler := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/ingest", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestMiddleware_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	l := NewRedisLimiter(rdb, 1, time.Minute)

	mr.Close()

	handler := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
