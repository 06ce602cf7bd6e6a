package repository

import (
	"context"

	"QuoteGate/internal/domain/models"
)

// HistoryProvider is the upstream financial-data source. One History call is one
// fetch attempt; retrying is the caller's concern.
type HistoryProvider interface {
	// History returns the daily price series for symbol over the named
	// lookback range (e.g. "1mo"). An empty series is not an error.
	History(ctx context.Context, symbol, lookback string) (models.Series, error)

	// Info performs a direct single lookup of the symbol's current state.
	// Used by the degraded search path; never retried.
	Info(ctx context.Context, symbol string) (*models.SymbolInfo, error)
}

// Admitter gates requests against the process-wide admission window.
type Admitter interface {
	Allow() bool
}

type Metrics interface {
	RecordFetch(outcome string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordRateLimited()
}
