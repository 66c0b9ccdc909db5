package currency

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/pkg/logger"
	"github.com/getsentry/sentry-go"
)

// DefaultTTL is how long a fetched rate list is served without refreshing
const DefaultTTL = time.Hour

// DefaultRetryInterval is how long stale rates are served after a failed
// refresh before upstream is tried again
const DefaultRetryInterval = time.Minute

// ErrUnavailable is returned when no rates have ever been fetched successfully
var ErrUnavailable = errors.New("exchange rates unavailable")

// Snapshot is a rate list with the time it was fetched
type Snapshot struct {
	Rates     []models.ExchangeRate `json:"rates"`
	FetchedAt time.Time             `json:"fetched_at"`
}

// SharedStore lets several processes reuse one fetched snapshot
type SharedStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error
}

// RateCache owns the most recent successful rate list. Concurrent refreshes
// may both reach upstream; the last one to finish wins.
type RateCache struct {
	fetcher Fetcher
	store   SharedStore
	ttl     time.Duration
	retry   time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	snap     *Snapshot
	failedAt time.Time
}

// Option configures a RateCache
type Option func(*RateCache)

// WithTTL overrides the freshness window
func WithTTL(ttl time.Duration) Option {
	return func(c *RateCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRetryInterval overrides the wait between failed refreshes while stale
// rates are being served
func WithRetryInterval(d time.Duration) Option {
	return func(c *RateCache) {
		if d > 0 {
			c.retry = d
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(c *RateCache) { c.now = now }
}

// WithStore shares snapshots through store
func WithStore(store SharedStore) Option {
	return func(c *RateCache) { c.store = store }
}

// NewRateCache creates a cache in front of fetcher
func NewRateCache(fetcher Fetcher, opts ...Option) *RateCache {
	c := &RateCache{
		fetcher: fetcher,
		ttl:     DefaultTTL,
		retry:   DefaultRetryInterval,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rates returns the current rate list and never fails: a fresh cached list,
// else a newly fetched one, else the last successful list, else TRY identity.
func (c *RateCache) Rates(ctx context.Context) []models.ExchangeRate {
	rates, err := c.Current(ctx)
	if err != nil {
		return []models.ExchangeRate{Identity()}
	}
	return rates
}

// Current is like Rates but reports ErrUnavailable when no successful fetch
// has ever happened.
func (c *RateCache) Current(ctx context.Context) ([]models.ExchangeRate, error) {
	if snap := c.fresh(); snap != nil {
		return snap.Rates, nil
	}
	if snap := c.backingOff(); snap != nil {
		return snap.Rates, nil
	}

	if err := c.Refresh(ctx); err != nil {
		c.mu.RLock()
		defer c.mu.RUnlock()
		if c.snap != nil {
			logger.Warn("Serving stale exchange rates", "fetched_at", c.snap.FetchedAt, "error", err)
			return c.snap.Rates, nil
		}
		return nil, errors.Join(ErrUnavailable, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Rates, nil
}

// Converter returns a converter over the current rates
func (c *RateCache) Converter(ctx context.Context) *Converter {
	return NewConverter(c.Rates(ctx))
}

// Refresh fetches new rates, preferring a fresh shared snapshot when a store is configured
func (c *RateCache) Refresh(ctx context.Context) error {
	if c.store != nil {
		snap, err := c.store.Load(ctx)
		if err != nil {
			logger.Warn("Failed to load shared exchange rates", "error", err)
		} else if snap != nil && c.isFresh(snap) {
			c.set(snap)
			return nil
		}
	}

	rates, err := c.fetcher.Fetch(ctx)
	if err != nil {
		logger.Error("Failed to fetch exchange rates", "error", err)
		sentry.CaptureException(err)
		c.mu.Lock()
		c.failedAt = c.now()
		c.mu.Unlock()
		return err
	}

	snap := &Snapshot{Rates: ensureIdentity(rates), FetchedAt: c.now()}
	c.set(snap)

	if c.store != nil {
		if err := c.store.Save(ctx, snap, c.ttl); err != nil {
			logger.Warn("Failed to share exchange rates", "error", err)
		}
	}
	return nil
}

// Snapshot returns the last successful snapshot, if any
func (c *RateCache) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *RateCache) fresh() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap != nil && c.isFresh(c.snap) {
		return c.snap
	}
	return nil
}

// backingOff returns the stale snapshot while a recent refresh failure is
// still within the retry interval
func (c *RateCache) backingOff() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || c.failedAt.IsZero() {
		return nil
	}
	if c.now().Sub(c.failedAt) < c.retry {
		return c.snap
	}
	return nil
}

func (c *RateCache) isFresh(snap *Snapshot) bool {
	return c.now().Sub(snap.FetchedAt) < c.ttl
}

func (c *RateCache) set(snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
	c.failedAt = time.Time{}
}

func ensureIdentity(rates []models.ExchangeRate) []models.ExchangeRate {
	for _, r := range rates {
		if r.Currency == models.CurrencyTRY {
			return rates
		}
	}
	return append([]models.ExchangeRate{Identity()}, rates...)
}
