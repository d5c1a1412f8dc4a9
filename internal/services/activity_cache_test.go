package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingoboard/internal/models"
	"lingoboard/internal/utils"
)

// countingFetch counts computations and can hold them until release is closed.
type countingFetch struct {
	calls   atomic.Int32
	started chan string
	release chan struct{}

	mu  sync.Mutex
	err error
}

func newCountingFetch() *countingFetch {
	return &countingFetch{started: make(chan string, 16)}
}

func (f *countingFetch) hold() {
	f.release = make(chan struct{})
}

func (f *countingFetch) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *countingFetch) fetch(ctx context.Context, userID string) (*models.UserCommunityActivity, error) {
	n := f.calls.Add(1)
	f.started <- userID
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &models.UserCommunityActivity{UserID: userID, GeneratedAt: time.Unix(int64(n), 0)}, nil
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

type result struct {
	activity *models.UserCommunityActivity
	err      error
}

func fetchAsync(c *ActivityCache, ctx context.Context, userID string, force bool) <-chan result {
	out := make(chan result, 1)
	go func() {
		a, err := c.Fetch(ctx, userID, FetchOptions{Force: force})
		out <- result{a, err}
	}()
	return out
}

// waitJoined waits until n callers missed the cache, then gives them a moment to join the flight.
func waitJoined(t *testing.T, reg *prometheus.Registry, n float64) {
	t.Helper()
	require.Eventually(t, func() bool {
		return counterValue(t, reg, "lingoboard_activity_cache_misses_total") >= n
	}, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
}

func TestActivityCacheServesCachedValue(t *testing.T) {
	f := newCountingFetch()
	reg := prometheus.NewRegistry()
	c := NewActivityCache(f.fetch, WithRegisterer(reg), WithClock(fixedClock{testNow}))
	ctx := context.Background()

	first, err := c.Fetch(ctx, "u1", FetchOptions{})
	require.NoError(t, err)
	second, err := c.Fetch(ctx, "u1", FetchOptions{})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, f.calls.Load())
	assert.EqualValues(t, 1, counterValue(t, reg, "lingoboard_activity_cache_hits_total"))
	assert.EqualValues(t, 1, counterValue(t, reg, "lingoboard_activity_cache_computations_total"))

	entry, ok := c.Cached("u1")
	require.True(t, ok)
	assert.Equal(t, testNow, entry.CachedAt)
}

func TestActivityCacheForceRecomputes(t *testing.T) {
	f := newCountingFetch()
	c := NewActivityCache(f.fetch)
	ctx := context.Background()

	first, err := c.Fetch(ctx, "u1", FetchOptions{})
	require.NoError(t, err)
	forced, err := c.Fetch(ctx, "u1", FetchOptions{Force: true})
	require.NoError(t, err)

	assert.NotSame(t, first, forced)
	assert.EqualValues(t, 2, f.calls.Load())

	cached, err := c.Fetch(ctx, "u1", FetchOptions{})
	require.NoError(t, err)
	assert.Same(t, forced, cached)
}

func TestActivityCacheSingleFlight(t *testing.T) {
	f := newCountingFetch()
	f.hold()
	reg := prometheus.NewRegistry()
	c := NewActivityCache(f.fetch, WithRegisterer(reg))
	ctx := context.Background()

	results := []<-chan result{fetchAsync(c, ctx, "u1", false)}
	<-f.started
	for range 4 {
		results = append(results, fetchAsync(c, ctx, "u1", false))
	}
	waitJoined(t, reg, 5)
	// a forced call joins the running computation too
	results = append(results, fetchAsync(c, ctx, "u1", true))
	time.Sleep(20 * time.Millisecond)
	close(f.release)

	var first *models.UserCommunityActivity
	for _, ch := range results {
		r := <-ch
		require.NoError(t, r.err)
		if first == nil {
			first = r.activity
		}
		assert.Same(t, first, r.activity)
	}
	assert.EqualValues(t, 1, f.calls.Load())
	assert.EqualValues(t, 6, counterValue(t, reg, "lingoboard_activity_cache_shared_total"))
}

func TestActivityCacheConcurrentForcedFetchesShareOneComputation(t *testing.T) {
	f := newCountingFetch()
	reg := prometheus.NewRegistry()
	c := NewActivityCache(f.fetch, WithRegisterer(reg))
	ctx := context.Background()

	stale, err := c.Fetch(ctx, "u1", FetchOptions{})
	require.NoError(t, err)
	<-f.started

	f.hold()
	first := fetchAsync(c, ctx, "u1", true)
	<-f.started
	second := fetchAsync(c, ctx, "u1", true)
	time.Sleep(20 * time.Millisecond)
	close(f.release)

	a, b := <-first, <-second
	require.NoError(t, a.err)
	require.NoError(t, b.err)
	assert.Same(t, a.activity, b.activity)
	assert.NotSame(t, stale, a.activity)
	assert.EqualValues(t, 2, f.calls.Load())
	assert.EqualValues(t, 2, counterValue(t, reg, "lingoboard_activity_cache_shared_total"))

	cached, err := c.Fetch(ctx, "u1", FetchOptions{})
	require.NoError(t, err)
	assert.Same(t, a.activity, cached)
}

func TestActivityCacheDifferentUsersRunIndependently(t *testing.T) {
	f := newCountingFetch()
	f.hold()
	c := NewActivityCache(f.fetch)
	ctx := context.Background()

	a := fetchAsync(c, ctx, "u1", false)
	b := fetchAsync(c, ctx, "u2", false)
	started := []string{<-f.started, <-f.started}
	close(f.release)

	assert.ElementsMatch(t, []string{"u1", "u2"}, started)
	assert.Equal(t, "u1", (<-a).activity.UserID)
	assert.Equal(t, "u2", (<-b).activity.UserID)
}

func TestActivityCacheErrorIsSharedAndNotStored(t *testing.T) {
	f := newCountingFetch()
	f.hold()
	boom := errors.New("backend down")
	f.fail(boom)
	reg := prometheus.NewRegistry()
	c := NewActivityCache(f.fetch, WithRegisterer(reg))
	ctx := context.Background()

	first := fetchAsync(c, ctx, "u1", false)
	<-f.started
	second := fetchAsync(c, ctx, "u1", false)
	waitJoined(t, reg, 2)
	close(f.release)

	assert.ErrorIs(t, (<-first).err, boom)
	assert.ErrorIs(t, (<-second).err, boom)
	_, ok := c.Cached("u1")
	assert.False(t, ok)
	assert.EqualValues(t, 1, counterValue(t, reg, "lingoboard_activity_cache_errors_total"))

	// no retry happened, the next call computes again
	f.fail(nil)
	got, err := c.Fetch(ctx, "u1", FetchOptions{})
	<-f.started
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestActivityCacheCallerCancellation(t *testing.T) {
	f := newCountingFetch()
	f.hold()
	c := NewActivityCache(f.fetch)

	ctx, cancel := context.WithCancel(context.Background())
	abandoned := fetchAsync(c, ctx, "u1", false)
	<-f.started
	cancel()

	r := <-abandoned
	assert.ErrorIs(t, r.err, context.Canceled)
	assert.Nil(t, r.activity)

	close(f.release)
	require.Eventually(t, func() bool {
		_, ok := c.Cached("u1")
		return ok
	}, time.Second, time.Millisecond)

	got, err := c.Fetch(context.Background(), "u1", FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestActivityCacheWithLRUStore(t *testing.T) {
	store, err := utils.NewLRUStore[string, CachedActivity](1)
	require.NoError(t, err)
	f := newCountingFetch()
	c := NewActivityCache(f.fetch, WithStore(store))
	ctx := context.Background()

	_, err = c.Fetch(ctx, "u1", FetchOptions{})
	require.NoError(t, err)
	_, err = c.Fetch(ctx, "u2", FetchOptions{})
	require.NoError(t, err)
	_, err = c.Fetch(ctx, "u1", FetchOptions{})
	require.NoError(t, err)

	// u1 was evicted by u2
	assert.EqualValues(t, 3, f.calls.Load())
	assert.Equal(t, 1, store.Len())
}
