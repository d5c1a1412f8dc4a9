package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"lingoboard/internal/models"
	"lingoboard/internal/utils"
)

// FetchFunc computes the activity of one user.
type FetchFunc func(ctx context.Context, userID string) (*models.UserCommunityActivity, error)

// CachedActivity is a stored computation result.
type CachedActivity struct {
	Activity *models.UserCommunityActivity
	CachedAt time.Time
}

type FetchOptions struct {
	// Force skips the cached value. A computation already in flight is still shared.
	Force bool
}

// ActivityCache memoizes per-user activity and runs at most one computation per
// user at a time. Failed computations are returned to every waiter and never
// stored. Returned activities are shared and must not be modified.
type ActivityCache struct {
	fetch  FetchFunc
	store  utils.Store[string, CachedActivity]
	clock  Clock
	flight singleflight.Group

	registerer prometheus.Registerer
	hits       prometheus.Counter
	misses     prometheus.Counter
	computes   prometheus.Counter
	shared     prometheus.Counter
	errorCount prometheus.Counter
}

type CacheOption func(*ActivityCache)

// WithStore replaces the default unbounded map store.
func WithStore(store utils.Store[string, CachedActivity]) CacheOption {
	return func(c *ActivityCache) {
		if store != nil {
			c.store = store
		}
	}
}

func WithClock(clock Clock) CacheOption {
	return func(c *ActivityCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRegisterer registers the cache counters on reg. Without it the counters
// are kept but not exported.
func WithRegisterer(reg prometheus.Registerer) CacheOption {
	return func(c *ActivityCache) {
		c.registerer = reg
	}
}

func NewActivityCache(fetch FetchFunc, opts ...CacheOption) *ActivityCache {
	c := &ActivityCache{
		fetch: fetch,
		store: utils.NewMapStore[string, CachedActivity](),
		clock: SystemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}

	factory := promauto.With(c.registerer)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lingoboard",
			Subsystem: "activity_cache",
			Name:      name,
			Help:      help,
		})
	}
	c.hits = counter("hits_total", "Activity requests served from the cache.")
	c.misses = counter("misses_total", "Non-forced activity requests that found no cached value.")
	c.computes = counter("computations_total", "Activity computations started.")
	c.shared = counter("shared_total", "Activity results delivered from a computation shared with other callers.")
	c.errorCount = counter("errors_total", "Activity computations that failed.")
	return c
}

// Fetch returns the activity of userID, computing it when it is not cached or
// when opts.Force is set. The computation is detached from ctx: if ctx ends first
// Fetch returns ctx.Err() and the computation still completes for other callers.
func (c *ActivityCache) Fetch(ctx context.Context, userID string, opts FetchOptions) (*models.UserCommunityActivity, error) {
	if !opts.Force {
		if entry, ok := c.store.Get(userID); ok {
			c.hits.Inc()
			return entry.Activity, nil
		}
		c.misses.Inc()
	}

	detached := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(userID, func() (any, error) {
		// a flight that finished between our miss and now may have filled the store
		if !opts.Force {
			if entry, ok := c.store.Get(userID); ok {
				return entry.Activity, nil
			}
		}

		c.computes.Inc()
		activity, err := c.fetch(detached, userID)
		if err != nil {
			c.errorCount.Inc()
			return nil, err
		}
		c.store.Set(userID, CachedActivity{Activity: activity, CachedAt: c.clock.Now()})
		return activity, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.shared.Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.UserCommunityActivity), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cached returns the stored entry for userID without computing.
func (c *ActivityCache) Cached(userID string) (CachedActivity, bool) {
	return c.store.Get(userID)
}
