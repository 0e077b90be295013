package persist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func sampleResult() *event.Result {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	evt := &event.RawEvent{
		EventType: event.TypeChatAnalysis,
		Data:      map[string]any{"message": "gm", "user": "alice"},
		UserID:    "7",
	}
	return event.NewResult("chat", event.TypeChatAnalysis, "chat_analysis_worker", evt,
		map[string]any{"engagement_score": float64(64)}, []string{"looks fine"}, now)
}

func TestCache_StoreRoundTrip(t *testing.T) {
	mr, rdb := testRedis(t)
	cache := NewCache(rdb, time.Hour)

	res := sampleResult()
	require.NoError(t, cache.Store(context.Background(), event.TypeChatAnalysis, res))

	key := event.CacheKey(event.TypeChatAnalysis, res.ID)
	raw, err := mr.Get(key)
	require.NoError(t, err)

	var decoded event.Result
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, res.ID, decoded.ID)
	assert.Equal(t, res.Insights, decoded.Insights)
}

func TestCache_TTLExpiry(t *testing.T) {
	mr, rdb := testRedis(t)
	cache := NewCache(rdb, time.Hour)

	res := sampleResult()
	require.NoError(t, cache.Store(context.Background(), event.TypeChatAnalysis, res))

	key := event.CacheKey(event.TypeChatAnalysis, res.ID)
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(time.Hour + time.Second)
	assert.False(t, mr.Exists(key))
}

type fakeMirror struct {
	err      error
	mirrored []*event.Result
}

func (f *fakeMirror) Mirror(_ context.Context, res *event.Result) error {
	f.mirrored = append(f.mirrored, res)
	return f.err
}

func TestGateway_MirrorsSuccesses(t *testing.T) {
	_, rdb := testRedis(t)
	mirror := &fakeMirror{}
	gw := NewGateway(NewCache(rdb, time.Hour), mirror, nil)

	res := sampleResult()
	require.NoError(t, gw.Persist(context.Background(), event.TypeChatAnalysis, res))
	require.Len(t, mirror.mirrored, 1)
	assert.Equal(t, res.ID, mirror.mirrored[0].ID)
}

func TestGateway_ErrorResultsNotMirrored(t *testing.T) {
	_, rdb := testRedis(t)
	mirror := &fakeMirror{}
	gw := NewGateway(NewCache(rdb, time.Hour), mirror, nil)

	res := event.NewErrorResult("chat", event.TypeChatAnalysis, "chat_analysis_worker",
		nil, errors.New("bad payload"), time.Now())

	require.NoError(t, gw.Persist(context.Background(), event.TypeChatAnalysis, res))
	assert.Empty(t, mirror.mirrored)

	// The error result is still cached.
	_, rdbErr := rdb.Get(context.Background(), event.CacheKey(event.TypeChatAnalysis, res.ID)).Result()
	assert.NoError(t, rdbErr)
}

func TestGateway_GraphFailureIsSwallowed(t *testing.T) {
	_, rdb := testRedis(t)
	mirror := &fakeMirror{err: errors.New("graph unavailable")}
	gw := NewGateway(NewCache(rdb, time.Hour), mirror, nil)

	assert.NoError(t, gw.Persist(context.Background(), event.TypeChatAnalysis, sampleResult()))
}

func TestGateway_CacheFailureSurfaces(t *testing.T) {
	mr, rdb := testRedis(t)
	gw := NewGateway(NewCache(rdb, time.Hour), &fakeMirror{}, nil)

	mr.Close()

	err := gw.Persist(context.Background(), event.TypeChatAnalysis, sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "caching result")
}
