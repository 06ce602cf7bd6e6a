package usecase

import (
	"context"
	"fmt"
	"time"

	"QuoteGate/internal/domain/models"
	drepo "QuoteGate/internal/domain/repository"
	xlogger "QuoteGate/pkg/logger"
	"QuoteGate/pkg/util"
)

// Settings holds the fetch policy knobs of the quote service.
type Settings struct {
	MaxAttempts     int           // attempt budget for single-quote fetches
	BatchAttempts   int           // reduced budget per batch item
	BackoffStep     time.Duration // retry delay grows by this per attempt
	BatchPacing     time.Duration // delay between successive batch items
	BatchMaxSymbols int           // batch input is silently truncated to this
	Lookback        string        // upstream history range, e.g. "1mo"
}

// QuoteService is the acquisition pipeline: admission, retrying fetch,
// normalization, and batch orchestration over one upstream provider.
type QuoteService struct {
	provider drepo.HistoryProvider
	limiter  drepo.Admitter
	metrics  drepo.Metrics
	logger   *xlogger.Logger
	settings Settings

	// sleep and now are injectable so backoff and pacing are testable
	// without real waits.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

type Option func(*QuoteService)

// WithSleep overrides the blocking wait used for backoff and pacing.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *QuoteService) { s.sleep = sleep }
}

// WithNow overrides the clock used for lastUpdated stamps.
func WithNow(now func() time.Time) Option {
	return func(s *QuoteService) { s.now = now }
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(provider drepo.HistoryProvider, limiter drepo.Admitter, metrics drepo.Metrics, logger *xlogger.Logger, settings Settings, opts ...Option) *QuoteService {
	s := &QuoteService{
		provider: provider,
		limiter:  limiter,
		metrics:  metrics,
		logger:   logger,
		settings: settings,
		sleep:    sleepCtx,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetQuote fetches one normalized quote. The admission window is consulted
// before any upstream work.
func (s *QuoteService) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = util.NormalizeSymbol(symbol)

	if !s.limiter.Allow() {
		s.metrics.RecordRateLimited()
		return nil, models.ErrRateLimited
	}

	start := s.now()
	snap, err := s.fetchWithRetry(ctx, symbol, s.settings.MaxAttempts)
	s.metrics.RecordLatency("get_quote", time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	return NormalizeQuote(symbol, snap, s.now()), nil
}

// GetBatch fetches quotes for up to BatchMaxSymbols symbols sequentially,
// pacing successive upstream calls. The admission window is consulted once
// for the whole batch. Symbols that fail all retries are omitted from the
// result; callers infer failure by absence.
func (s *QuoteService) GetBatch(ctx context.Context, symbols []string) (map[string]*models.BatchQuote, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: symbols list is empty", models.ErrInvalidRequest)
	}
	symbols = util.TruncateSymbols(symbols, s.settings.BatchMaxSymbols)

	if !s.limiter.Allow() {
		s.metrics.RecordRateLimited()
		return nil, models.ErrRateLimited
	}

	result := make(map[string]*models.BatchQuote, len(symbols))
	for i, raw := range symbols {
		if i > 0 {
			if err := s.sleep(ctx, s.settings.BatchPacing); err != nil {
				return result, nil
			}
		}

		symbol := util.NormalizeSymbol(raw)
		snap, err := s.fetchWithRetry(ctx, symbol, s.settings.BatchAttempts)
		if err != nil {
			s.logger.Warn("batch symbol skipped",
				xlogger.String("symbol", symbol),
				xlogger.Error(err),
			)
			continue
		}

		q := NormalizeQuote(symbol, snap, s.now())
		result[symbol] = &models.BatchQuote{
			Symbol:           q.Symbol,
			AssetType:        q.AssetType,
			CurrentPrice:     q.CurrentPrice,
			Change24h:        q.Change24h,
			ChangePercentage: q.ChangePercentage,
			Volume:           q.Volume,
			MarketCap:        q.MarketCap,
		}
	}

	return result, nil
}

// Search resolves the query as an exact symbol via a direct, non-retrying
// info lookup. Anything that fails, including upstream faults, degrades to
// an empty result list.
func (s *QuoteService) Search(ctx context.Context, query string) []models.SearchResult {
	symbol := util.NormalizeSymbol(query)

	info, err := s.provider.Info(ctx, symbol)
	if err != nil {
		s.metrics.RecordError("search")
		s.logger.Debug("search lookup failed",
			xlogger.String("symbol", symbol),
			xlogger.Error(err),
		)
		return []models.SearchResult{}
	}
	if !info.HasPrice {
		return []models.SearchResult{}
	}

	name := info.Name
	if name == "" {
		name = symbol
	}
	change := 0.0
	if info.PreviousClose != 0 {
		change = info.Price - info.PreviousClose
	}

	return []models.SearchResult{{
		Symbol:       symbol,
		Name:         name,
		AssetType:    ClassifyAsset(symbol),
		CurrentPrice: info.Price,
		Change24h:    change,
	}}
}
