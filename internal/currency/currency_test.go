package currency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bulletin = `<?xml version="1.0" encoding="ISO-8859-9"?>
<Tarih_Date Tarih="15.10.2026" Date="10/15/2026" Bulten_No="2026/195">
  <Currency CrossOrder="0" Kod="USD" CurrencyCode="USD">
    <Unit>1</Unit>
    <ForexBuying>30.0</ForexBuying>
    <ForexSelling>30.2</ForexSelling>
  </Currency>
  <Currency CrossOrder="1" Kod="AUD" CurrencyCode="AUD">
    <Unit>1</Unit>
    <ForexBuying>20.1</ForexBuying>
    <ForexSelling>20.3</ForexSelling>
  </Currency>
  <Currency CrossOrder="9" Kod="EUR" CurrencyCode="EUR">
    <Unit>1</Unit>
    <ForexBuying>33.0</ForexBuying>
    <ForexSelling>33.2</ForexSelling>
  </Currency>
  <Currency CrossOrder="10" Kod="GBP" CurrencyCode="GBP">
    <Unit>1</Unit>
    <ForexBuying>39.0</ForexBuying>
    <ForexSelling>39.4</ForexSelling>
  </Currency>
</Tarih_Date>`

func rateOf(rates []models.ExchangeRate, c models.Currency) (models.ExchangeRate, bool) {
	for _, r := range rates {
		if r.Currency == c {
			return r, true
		}
	}
	return models.ExchangeRate{}, false
}

func TestParseTCMB(t *testing.T) {
	rates, err := ParseTCMB(strings.NewReader(bulletin))
	require.NoError(t, err)
	assert.Len(t, rates, 4)

	try, ok := rateOf(rates, models.CurrencyTRY)
	require.True(t, ok)
	assert.Equal(t, 1.0, try.Buying)

	usd, ok := rateOf(rates, models.CurrencyUSD)
	require.True(t, ok)
	assert.Equal(t, 30.0, usd.Buying)
	assert.Equal(t, 30.2, usd.Selling)

	_, ok = rateOf(rates, models.Currency("AUD"))
	assert.False(t, ok)
}

func TestParseTCMB_Invalid(t *testing.T) {
	_, err := ParseTCMB(strings.NewReader("not xml"))
	assert.Error(t, err)

	_, err = ParseTCMB(strings.NewReader(`<Tarih_Date></Tarih_Date>`))
	assert.Error(t, err)
}

func TestTCMBFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(bulletin))
	}))
	defer srv.Close()

	rates, err := NewTCMBFetcher(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, rates, 4)
}

func TestTCMBFetcher_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewTCMBFetcher(srv.URL, time.Second).Fetch(context.Background())
	assert.Error(t, err)
}

var testRates = []models.ExchangeRate{
	{Currency: models.CurrencyTRY, Buying: 1, Selling: 1},
	{Currency: models.CurrencyUSD, Buying: 30, Selling: 30.2},
	{Currency: models.CurrencyEUR, Buying: 33, Selling: 33.2},
}

func TestConverter_ToReference(t *testing.T) {
	conv := NewConverter(testRates)

	tests := []struct {
		name   string
		amount string
		cur    models.Currency
		want   string
	}{
		{"usd unchanged", "100", models.CurrencyUSD, "100"},
		{"try divided by usd", "300", models.CurrencyTRY, "10"},
		{"eur through try", "100", models.CurrencyEUR, "110"},
		{"unknown currency unchanged", "50", models.CurrencyGBP, "50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conv.ToReference(decimal.RequireFromString(tt.amount), tt.cur)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestConverter_MissingUSD(t *testing.T) {
	conv := NewConverter([]models.ExchangeRate{Identity()})
	got := conv.ToReference(decimal.NewFromInt(300), models.CurrencyTRY)
	assert.True(t, decimal.NewFromInt(300).Equal(got))
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func countingFetcher(calls *int32, fail *atomic.Bool) Fetcher {
	return FetcherFunc(func(ctx context.Context) ([]models.ExchangeRate, error) {
		atomic.AddInt32(calls, 1)
		if fail.Load() {
			return nil, errors.New("upstream down")
		}
		return testRates, nil
	})
}

func TestRateCache_ServesFreshWithoutRefetch(t *testing.T) {
	var calls int32
	var fail atomic.Bool
	clock := &fakeClock{t: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	cache := NewRateCache(countingFetcher(&calls, &fail), WithClock(clock.Now))

	ctx := context.Background()
	cache.Rates(ctx)
	clock.Advance(30 * time.Minute)
	cache.Rates(ctx)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	clock.Advance(31 * time.Minute)
	cache.Rates(ctx)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRateCache_StaleFallback(t *testing.T) {
	var calls int32
	var fail atomic.Bool
	clock := &fakeClock{t: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	cache := NewRateCache(countingFetcher(&calls, &fail), WithClock(clock.Now))

	ctx := context.Background()
	require.Len(t, cache.Rates(ctx), 3)

	fail.Store(true)
	clock.Advance(2 * time.Hour)

	rates, err := cache.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, testRates, rates)
}

func TestRateCache_StaleBacksOffAfterFailure(t *testing.T) {
	var calls int32
	var fail atomic.Bool
	clock := &fakeClock{t: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	cache := NewRateCache(countingFetcher(&calls, &fail), WithClock(clock.Now), WithRetryInterval(5*time.Minute))

	ctx := context.Background()
	require.Len(t, cache.Rates(ctx), 3)

	fail.Store(true)
	clock.Advance(2 * time.Hour)

	for i := 0; i < 10; i++ {
		rates, err := cache.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, testRates, rates)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "one failed refresh, then stale rates until the retry interval passes")

	clock.Advance(4 * time.Minute)
	cache.Rates(ctx)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	fail.Store(false)
	clock.Advance(time.Minute)
	cache.Rates(ctx)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	// fresh again, no further fetches
	cache.Rates(ctx)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRateCache_IdentityWhenNeverFetched(t *testing.T) {
	var calls int32
	var fail atomic.Bool
	fail.Store(true)
	cache := NewRateCache(countingFetcher(&calls, &fail))

	ctx := context.Background()
	assert.Equal(t, []models.ExchangeRate{Identity()}, cache.Rates(ctx))

	_, err := cache.Current(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)

	got := cache.Converter(ctx).ToReference(decimal.NewFromInt(100), models.CurrencyTRY)
	assert.True(t, decimal.NewFromInt(100).Equal(got))
}

func TestRateCache_AddsIdentity(t *testing.T) {
	cache := NewRateCache(FetcherFunc(func(ctx context.Context) ([]models.ExchangeRate, error) {
		return []models.ExchangeRate{{Currency: models.CurrencyUSD, Buying: 30, Selling: 30}}, nil
	}))

	rates := cache.Rates(context.Background())
	_, ok := rateOf(rates, models.CurrencyTRY)
	assert.True(t, ok)
}

func TestRateCache_SharedStore(t *testing.T) {
	s := miniredis.RunT(t)
	client, err := OpenRedis(s.Addr(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)
	ctx := context.Background()

	var callsA, callsB int32
	var fail atomic.Bool
	a := NewRateCache(countingFetcher(&callsA, &fail), WithStore(store))
	b := NewRateCache(countingFetcher(&callsB, &fail), WithStore(store))

	require.Len(t, a.Rates(ctx), 3)
	require.Len(t, b.Rates(ctx), 3)

	assert.Equal(t, int32(1), atomic.LoadInt32(&callsA))
	assert.Equal(t, int32(0), atomic.LoadInt32(&callsB))
	assert.True(t, s.Exists(redisSnapshotKey))
}

func TestRedisStore_EmptyLoad(t *testing.T) {
	s := miniredis.RunT(t)
	client, err := OpenRedis(s.Addr(), 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	snap, err := NewRedisStore(client).Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, snap)
}
