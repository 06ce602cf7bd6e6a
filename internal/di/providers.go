package di

import (
	"fmt"

	drepo "QuoteGate/internal/domain/repository"
	"QuoteGate/internal/handler/api"
	"QuoteGate/internal/service/ratelimit"
	"QuoteGate/internal/service/yahoo"
	"QuoteGate/internal/usecase"
	"QuoteGate/pkg/config"
	xhttp "QuoteGate/pkg/http"
	applogger "QuoteGate/pkg/logger"
	"QuoteGate/pkg/metrics"
	"QuoteGate/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideLimiter creates the process-wide admission window.
func ProvideLimiter(cfg *config.Config) drepo.Admitter {
	return ratelimit.New(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
}

// ProvideHistoryProvider creates the Yahoo Finance upstream client.
func ProvideHistoryProvider(cfg *config.Config) drepo.HistoryProvider {
	opts := []yahoo.Option{}
	if cfg.Yahoo.UserAgent != "" {
		opts = append(opts, yahoo.WithUserAgent(cfg.Yahoo.UserAgent))
	}
	return yahoo.New(cfg.Yahoo.BaseURL, cfg.Yahoo.Timeout, opts...)
}

// ProvideQuoteService creates the acquisition pipeline use case.
func ProvideQuoteService(
	provider drepo.HistoryProvider,
	limiter drepo.Admitter,
	m drepo.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.QuoteService {
	return usecase.NewQuoteService(provider, limiter, m, logger, usecase.Settings{
		MaxAttempts:     cfg.Fetch.MaxAttempts,
		BatchAttempts:   cfg.Fetch.BatchAttempts,
		BackoffStep:     cfg.Fetch.BackoffStep,
		BatchPacing:     cfg.Fetch.BatchPacing,
		BatchMaxSymbols: cfg.Fetch.BatchMaxSymbols,
		Lookback:        cfg.Fetch.Lookback,
	})
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(logger *applogger.Logger, svc *usecase.QuoteService) xhttp.Handler {
	return api.NewQuotesEchoHandler(logger, svc)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, logger *applogger.Logger, handler xhttp.Handler) *server.App {
	return server.New(cfg, logger, handler)
}
