package usecase

import (
	"context"
	"fmt"
	"time"

	"QuoteGate/internal/domain/models"
	xlogger "QuoteGate/pkg/logger"
)

// fetchWithRetry performs up to attempts upstream history fetches, sleeping
// attempt*BackoffStep between failures. An empty series counts as a failure.
// The sleep happens on the calling goroutine only; no shared lock is held.
func (s *QuoteService) fetchWithRetry(ctx context.Context, symbol string, attempts int) (models.Snapshot, error) {
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		series, err := s.provider.History(ctx, symbol, s.settings.Lookback)
		switch {
		case err != nil:
			lastErr = err
			s.metrics.RecordFetch("error")
		case len(series) == 0:
			s.metrics.RecordFetch("empty")
		default:
			s.metrics.RecordFetch("success")
			snap := snapshotFromSeries(series)
			s.metrics.RecordLastPrice(symbol, snap.Price)
			return snap, nil
		}

		if attempt < attempts {
			delay := time.Duration(attempt) * s.settings.BackoffStep
			s.logger.Debug("fetch retry",
				xlogger.String("symbol", symbol),
				xlogger.Int("attempt", attempt),
				xlogger.Duration("delay_ms", delay),
			)
			if err := s.sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}
	}

	if lastErr != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %s", models.ErrNoData, lastErr.Error())
	}
	return models.Snapshot{}, models.ErrNoData
}

// snapshotFromSeries derives price, change and volume from a non-empty series.
// With a single point, change and percent change are zero; a zero prior close
// also yields zero percent change.
func snapshotFromSeries(series models.Series) models.Snapshot {
	latest, _ := series.Latest()

	snap := models.Snapshot{
		Price:  latest.Close,
		Volume: latest.Volume,
	}
	if prior, ok := series.Prior(); ok {
		snap.Change = latest.Close - prior.Close
		if prior.Close != 0 {
			snap.ChangePercent = snap.Change / prior.Close * 100
		}
	}
	return snap
}

// sleepCtx is the default blocking wait for backoff and pacing.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
