package domain

import (
	"strconv"
	"time"
)

// ArchiveKey identifies the single archive row a coin may have per calendar day.
type ArchiveKey struct {
	CoinID string `json:"coin_id" msgpack:"coin_id"`
	Day    int64  `json:"day" msgpack:"day"`
}

// NewArchiveKey derives the key for coinID on the calendar day containing t.
func NewArchiveKey(coinID string, t time.Time) ArchiveKey {
	return ArchiveKey{CoinID: coinID, Day: CalendarDay(t).Unix()}
}

// RecordKey renders the legacy concatenated form, id followed by epoch seconds.
// Display only; lookups use the two-part key.
func (k ArchiveKey) RecordKey() string {
	return k.CoinID + strconv.FormatInt(k.Day, 10)
}

// Time returns the calendar day as a UTC time.
func (k ArchiveKey) Time() time.Time {
	return time.Unix(k.Day, 0).UTC()
}

// ArchiveEntry is a daily price snapshot for one coin.
type ArchiveEntry struct {
	Key      ArchiveKey `json:"key" msgpack:"key"`
	CoinName string     `json:"cname" msgpack:"cname"`
	PriceUSD string     `json:"price" msgpack:"price"`
}

// RecordKey is a shorthand for e.Key.RecordKey().
func (e ArchiveEntry) RecordKey() string {
	return e.Key.RecordKey()
}
