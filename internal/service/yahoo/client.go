package yahoo

import (
	"context"
	"fmt"
	"time"

	"QuoteGate/internal/domain/models"
	drepo "QuoteGate/internal/domain/repository"
	xhttp "QuoteGate/pkg/http"
)

const defaultUserAgent = "quotegate/1.0"

// Client implements a HistoryProvider backed by the Yahoo Finance chart API.
type Client struct {
	baseURL   string
	userAgent string
	client    *xhttp.Client
}

type Option func(*Client)

// WithUserAgent overrides the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a new Yahoo Finance HistoryProvider.
func New(baseURL string, timeout time.Duration, opts ...Option) drepo.HistoryProvider {
	c := &Client{
		baseURL:   baseURL,
		userAgent: defaultUserAgent,
		client:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		LongName           string  `json:"longName"`
		ShortName          string  `json:"shortName"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		PreviousClose      float64 `json:"chartPreviousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// History fetches the daily series for symbol over the named lookback range.
// An empty series is returned as-is; the retry loop upstream decides what to
// do with it.
func (c *Client) History(ctx context.Context, symbol, lookback string) (models.Series, error) {
	res, err := c.chart(ctx, symbol, lookback)
	if err != nil {
		return nil, err
	}

	var series models.Series
	for _, q := range res.Indicators.Quote {
		for i, ts := range res.Timestamp {
			if i >= len(q.Close) || q.Close[i] == nil {
				continue
			}
			bar := models.Bar{
				Timestamp: time.Unix(ts, 0),
				Close:     *q.Close[i],
			}
			if i < len(q.Volume) && q.Volume[i] != nil {
				bar.Volume = *q.Volume[i]
			}
			series = append(series, bar)
		}
		break // first quote block carries the price data
	}
	return series, nil
}

// Info performs a direct one-day chart lookup and reports the symbol's
// current state from the chart metadata.
func (c *Client) Info(ctx context.Context, symbol string) (*models.SymbolInfo, error) {
	res, err := c.chart(ctx, symbol, "1d")
	if err != nil {
		return nil, err
	}

	name := res.Meta.LongName
	if name == "" {
		name = res.Meta.ShortName
	}
	return &models.SymbolInfo{
		Symbol:        res.Meta.Symbol,
		Name:          name,
		Price:         res.Meta.RegularMarketPrice,
		PreviousClose: res.Meta.PreviousClose,
		HasPrice:      res.Meta.RegularMarketPrice != 0,
	}, nil
}

func (c *Client) chart(ctx context.Context, symbol, lookback string) (*chartResult, error) {
	var body chartResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, symbol),
		Headers: map[string]string{
			"User-Agent": c.userAgent,
		},
		QueryParams: map[string][]string{
			"range":    {lookback},
			"interval": {"1d"},
		},
	}, &body)
	if err != nil {
		return nil, &models.ProviderError{Symbol: symbol, Err: err}
	}

	if body.Chart.Error != nil {
		return nil, &models.ProviderError{
			Symbol: symbol,
			Err:    fmt.Errorf("%s: %s", body.Chart.Error.Code, body.Chart.Error.Description),
		}
	}
	if len(body.Chart.Result) == 0 {
		return nil, &models.ProviderError{Symbol: symbol, Err: fmt.Errorf("empty chart result")}
	}
	return &body.Chart.Result[0], nil
}
