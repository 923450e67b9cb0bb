package domain

import (
	"math"
	"strconv"
	"time"
)

// CoinRecord is one entry of the remote coin catalog.
type CoinRecord struct {
	ID     string `json:"id" msgpack:"id"`
	Symbol string `json:"symbol" msgpack:"symbol"`
	Name   string `json:"name" msgpack:"name"`
}

// Catalog is the ordered list of known coins, unique by ID.
// Symbols and names may repeat; lookups take the first match.
type Catalog []CoinRecord

// Vocabulary flattens every symbol and name in catalog order.
func (c Catalog) Vocabulary() []string {
	words := make([]string, 0, len(c)*2)
	for _, coin := range c {
		words = append(words, coin.Symbol, coin.Name)
	}
	return words
}

// MarketCoin is a row of the coins/markets endpoint.
type MarketCoin struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"current_price"`
	MarketCap     float64 `json:"market_cap"`
	MarketCapRank int     `json:"market_cap_rank"`
	TotalVolume   float64 `json:"total_volume"`
	LastUpdated   string  `json:"last_updated"`
}

// PriceSnapshot is a live USD price for a resolved coin.
type PriceSnapshot struct {
	CoinID          string  `json:"coin_id"`
	Currency        string  `json:"currency"`
	Price           float64 `json:"price"`
	LastUpdatedUnix int64   `json:"last_updated_unix"`
}

// DisplayPrice applies the display rule: values of at least 1 are rounded to
// two decimals, sub-unit values keep full precision.
func DisplayPrice(v float64) float64 {
	if v < 1 {
		return v
	}
	return math.Round(v*100) / 100
}

// FormatPrice renders a price the way archive rows store it.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CalendarDay truncates t to midnight UTC of its calendar day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
