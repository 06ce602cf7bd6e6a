package usecase

import (
	"strings"
	"time"

	"QuoteGate/internal/domain/models"
)

// cryptoSuffix is the pair convention marking crypto symbols (e.g. BTC-USD).
const cryptoSuffix = "-USD"

// ClassifyAsset classifies a symbol by its naming convention.
func ClassifyAsset(symbol string) models.AssetType {
	if strings.HasSuffix(strings.ToUpper(symbol), cryptoSuffix) {
		return models.AssetTypeCrypto
	}
	return models.AssetTypeStock
}

// NormalizeQuote converts a fetch snapshot into the externally visible quote.
// lastUpdated is the normalization time, not the underlying data point's.
// marketCap is not computed on this path and stays null.
func NormalizeQuote(symbol string, snap models.Snapshot, now time.Time) *models.Quote {
	return &models.Quote{
		Symbol:           symbol,
		AssetType:        ClassifyAsset(symbol),
		CurrentPrice:     snap.Price,
		Change24h:        snap.Change,
		ChangePercentage: snap.ChangePercent,
		Volume:           snap.Volume,
		MarketCap:        nil,
		LastUpdated:      now.Format(time.RFC3339),
	}
}
