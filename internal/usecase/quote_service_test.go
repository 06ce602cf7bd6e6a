package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"QuoteGate/internal/domain/models"
	xlogger "QuoteGate/pkg/logger"
)

// histResult scripts one History call outcome.
type histResult struct {
	series models.Series
	err    error
}

type stubProvider struct {
	script  map[string][]histResult
	calls   []string
	info    *models.SymbolInfo
	infoErr error
}

func (p *stubProvider) History(_ context.Context, symbol, _ string) (models.Series, error) {
	p.calls = append(p.calls, symbol)
	queue := p.script[symbol]
	if len(queue) == 0 {
		return nil, nil
	}
	head := queue[0]
	p.script[symbol] = queue[1:]
	return head.series, head.err
}

func (p *stubProvider) Info(_ context.Context, _ string) (*models.SymbolInfo, error) {
	return p.info, p.infoErr
}

type stubLimiter struct {
	allow bool
	calls int
}

func (l *stubLimiter) Allow() bool {
	l.calls++
	return l.allow
}

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string)              {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}
func (nopMetrics) RecordRateLimited()              {}

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func testSettings() Settings {
	return Settings{
		MaxAttempts:     3,
		BatchAttempts:   2,
		BackoffStep:     2 * time.Second,
		BatchPacing:     300 * time.Millisecond,
		BatchMaxSymbols: 20,
		Lookback:        "1mo",
	}
}

// newService wires a service with a recording sleep so no test really waits.
func newService(t *testing.T, p *stubProvider, l *stubLimiter, sleeps *[]time.Duration) *QuoteService {
	t.Helper()
	return NewQuoteService(p, l, nopMetrics{}, testLogger(t), testSettings(),
		WithSleep(func(_ context.Context, d time.Duration) error {
			*sleeps = append(*sleeps, d)
			return nil
		}),
	)
}

func series(closes ...float64) models.Series {
	s := make(models.Series, 0, len(closes))
	for i, c := range closes {
		s = append(s, models.Bar{
			Timestamp: time.Unix(int64(i), 0),
			Close:     c,
			Volume:    int64(1000 * (i + 1)),
		})
	}
	return s
}

func TestGetQuoteTwoPointMath(t *testing.T) {
	p := &stubProvider{script: map[string][]histResult{
		"AAPL": {{series: series(100.0, 110.0)}},
	}}
	var sleeps []time.Duration
	s := newService(t, p, &stubLimiter{allow: true}, &sleeps)

	q, err := s.GetQuote(context.Background(), "aapl")
	require.NoError(t, err)
	require.Equal(t, "AAPL", q.Symbol)
	require.Equal(t, models.AssetTypeStock, q.AssetType)
	require.Equal(t, 110.0, q.CurrentPrice)
	require.Equal(t, 10.0, q.Change24h)
	require.InDelta(t, 10.0, q.ChangePercentage, 0.001)
	require.Equal(t, int64(2000), q.Volume)
	require.Nil(t, q.MarketCap)
	require.Empty(t, sleeps)
}

func TestGetQuoteSinglePointNoDivideByZero(t *testing.T) {
	p := &stubProvider{script: map[string][]histResult{
		"AAPL": {{series: series(100.0)}},
	}}
	var sleeps []time.Duration
	s := newService(t, p, &stubLimiter{allow: true}, &sleeps)

	q, err := s.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, 100.0, q.CurrentPrice)
	require.Zero(t, q.Change24h)
	require.Zero(t, q.ChangePercentage)
}

func TestGetQuoteZeroPriorClose(t *testing.T) {
	p := &stubProvider{script: map[string][]histResult{
		"X": {{series: series(0.0, 5.0)}},
	}}
	var sleeps []time.Duration
	s := newService(t, p, &stubLimiter{allow: true}, &sleeps)

	q, err := s.GetQuote(context.Background(), "X")
	require.NoError(t, err)
	require.Equal(t, 5.0, q.Change24h)
	require.Zero(t, q.ChangePercentage)
}

func TestGetQuoteRetriesWithProgressiveBackoff(t *testing.T) {
	transport := errors.New("connection reset")
	p := &stubProvider{script: map[string][]histResult{
		"AAPL": {
			{err: transport},
			{series: nil}, // empty series also retries
			{series: series(100.0, 110.0)},
		},
	}}
	var sleeps []time.Duration
	s := newService(t, p, &stubLimiter{allow: true}, &sleeps)

	q, err := s.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, 110.0, q.CurrentPrice)
	require.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeps)
	require.Len(t, p.calls, 3)
}

func TestGetQuoteExhaustionIsNoData(t *testing.T) {
	transport := errors.New("connection reset")
	p := &stubProvider{script: map[string][]histResult{
		"AAPL": {{err: transport}, {err: transport}, {err: transport}},
	}}
	var sleeps []time.Duration
	s := newService(t, p, &stubLimiter{allow: true}, &sleeps)

	_, err := s.GetQuote(context.Background(), "AAPL")
	require.ErrorIs(t, err, models.ErrNoData)
	require.Contains(t, err.Error(), "connection reset")
	require.Len(t, sleeps, 2, "no sleep after the final attempt")
}

func TestGetQuoteRateLimited(t *testing.T) {
	p := &stubProvider{script: map[string][]histResult{}}
	var sleeps []time.Duration
	s := newService(t, p, &stubLimiter{allow: false}, &sleeps)

	_, err := s.GetQuote(context.Background(), "AAPL")
	require.ErrorIs(t, err, models.ErrRateLimited)
	require.Empty(t, p.calls, "no upstream work after rejection")
}

func TestGetBatchEmptyIsInvalid(t *testing.T) {
	var sleeps []time.Duration
	s := newService(t, &stubProvider{}, &stubLimiter{allow: true}, &sleeps)

	_, err := s.GetBatch(context.Background(), nil)
	require.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestGetBatchTruncatesToTwenty(t *testing.T) {
	script := map[string][]histResult{}
	var symbols []string
	for i := 0; i < 25; i++ {
		sym := fmt.Sprintf("S%02d", i)
		symbols = append(symbols, sym)
		script[sym] = []histResult{{series: series(1.0, 2.0)}}
	}
	p := &stubProvider{script: script}
	var sleeps []time.Duration
	s := newService(t, p, &stubLimiter{allow: true}, &sleeps)

	result, err := s.GetBatch(context.Background(), symbols)
	require.NoError(t, err)
	require.Len(t, result, 20)
	require.NotContains(t, result, "S20")
	require.Len(t, p.calls, 20)
}

func TestGetBatchSkipsFailedSymbols(t *testing.T) {
	transport := errors.New("timeout")
	p := &stubProvider{script: map[string][]histResult{
		"A": {{series: series(1.0, 2.0)}},
		"B": {{series: series(1.0, 2.0)}},
		"C": {{err: transport}, {err: transport}}, // both batch attempts fail
		"D": {{series: series(1.0, 2.0)}},
		"E": {{series: series(1.0, 2.0)}},
	}}
	var sleeps []time.Duration
	s := newService(t, p, &stubLimiter{allow: true}, &sleeps)

	result, err := s.GetBatch(context.Background(), []string{"A", "B", "C", "D", "E"})
	require.NoError(t, err)
	require.Len(t, result, 4)
	require.NotContains(t, result, "C")
}

func TestGetBatchSingleAdmissionAndPacing(t *testing.T) {
	p := &stubProvider{script: map[string][]histResult{
		"A": {{series: series(1.0, 2.0)}},
		"B": {{series: series(1.0, 2.0)}},
		"C": {{series: series(1.0, 2.0)}},
	}}
	limiter := &stubLimiter{allow: true}
	var sleeps []time.Duration
	s := newService(t, p, limiter, &sleeps)

	result, err := s.GetBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, result, 3)
	require.Equal(t, 1, limiter.calls, "one admission per whole batch")

	// pacing before every item but the first
	require.Equal(t, []time.Duration{300 * time.Millisecond, 300 * time.Millisecond}, sleeps)
}

func TestGetBatchRateLimited(t *testing.T) {
	var sleeps []time.Duration
	s := newService(t, &stubProvider{}, &stubLimiter{allow: false}, &sleeps)

	_, err := s.GetBatch(context.Background(), []string{"A"})
	require.ErrorIs(t, err, models.ErrRateLimited)
}

func TestSearchResolvesSymbol(t *testing.T) {
	p := &stubProvider{info: &models.SymbolInfo{
		Symbol:        "AAPL",
		Name:          "Apple Inc.",
		Price:         110.0,
		PreviousClose: 100.0,
		HasPrice:      true,
	}}
	var sleeps []time.Duration
	s := newService(t, p, &stubLimiter{allow: true}, &sleeps)

	results := s.Search(context.Background(), "aapl")
	require.Len(t, results, 1)
	require.Equal(t, "Apple Inc.", results[0].Name)
	require.Equal(t, 10.0, results[0].Change24h)
}

func TestSearchDegradesToEmpty(t *testing.T) {
	var sleeps []time.Duration

	// upstream fault
	s := newService(t, &stubProvider{infoErr: errors.New("boom")}, &stubLimiter{allow: true}, &sleeps)
	require.Empty(t, s.Search(context.Background(), "AAPL"))

	// no resolvable price
	s = newService(t, &stubProvider{info: &models.SymbolInfo{Symbol: "AAPL"}}, &stubLimiter{allow: true}, &sleeps)
	require.Empty(t, s.Search(context.Background(), "AAPL"))
}

func TestSearchNameFallsBackToSymbol(t *testing.T) {
	p := &stubProvider{info: &models.SymbolInfo{
		Symbol:   "BTC-USD",
		Price:    50000.0,
		HasPrice: true,
	}}
	var sleeps []time.Duration
	s := newService(t, p, &stubLimiter{allow: true}, &sleeps)

	results := s.Search(context.Background(), "btc-usd")
	require.Len(t, results, 1)
	require.Equal(t, "BTC-USD", results[0].Name)
	require.Equal(t, models.AssetTypeCrypto, results[0].AssetType)
}
