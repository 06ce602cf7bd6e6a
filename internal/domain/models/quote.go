package models

import "time"

// AssetType classifies a symbol by naming convention.
type AssetType string

const (
	AssetTypeStock  AssetType = "STOCK"
	AssetTypeCrypto AssetType = "CRYPTO"
)

// Bar is one point of an upstream price series.
type Bar struct {
	Timestamp time.Time
	Close     float64
	Volume    int64
}

// Series is an ordered (oldest first) upstream price series. May be empty.
type Series []Bar

// Latest returns the newest bar, or false if the series is empty.
func (s Series) Latest() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// Prior returns the second newest bar, or false if fewer than two points exist.
func (s Series) Prior() (Bar, bool) {
	if len(s) < 2 {
		return Bar{}, false
	}
	return s[len(s)-2], true
}

// Snapshot is the raw outcome of a successful retry-based fetch,
// before normalization into the externally visible Quote shape.
type Snapshot struct {
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        int64
}

// Quote is the externally visible quote record.
type Quote struct {
	Symbol           string    `json:"symbol"`
	AssetType        AssetType `json:"assetType"`
	CurrentPrice     float64   `json:"currentPrice"`
	Change24h        float64   `json:"change24h"`
	ChangePercentage float64   `json:"changePercentage"`
	Volume           int64     `json:"volume"`
	MarketCap        *int64    `json:"marketCap"`
	LastUpdated      string    `json:"lastUpdated"`
}

// BatchQuote is the per-symbol entry of a batch response. Same shape as Quote
// minus lastUpdated, which batch responses do not carry.
type BatchQuote struct {
	Symbol           string    `json:"symbol"`
	AssetType        AssetType `json:"assetType"`
	CurrentPrice     float64   `json:"currentPrice"`
	Change24h        float64   `json:"change24h"`
	ChangePercentage float64   `json:"changePercentage"`
	Volume           int64     `json:"volume"`
	MarketCap        *int64    `json:"marketCap"`
}

// SearchResult is one entry of the degraded symbol search.
type SearchResult struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	AssetType    AssetType `json:"assetType"`
	CurrentPrice float64   `json:"currentPrice"`
	Change24h    float64   `json:"change24h"`
}

// SymbolInfo is the direct (non-retrying) upstream lookup used by search.
type SymbolInfo struct {
	Symbol        string
	Name          string
	Price         float64
	PreviousClose float64
	MarketCap     int64
	HasPrice      bool
}
