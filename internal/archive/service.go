package archive

import (
	"context"
	"fmt"
	"log"
	"time"

	"coinquery/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultLimit = 5
	maxLimit     = 250
	currency     = "usd"
)

// Store persists archive rows. Create overwrites an existing row with the
// same key, so archiving twice on one day keeps the last prices.
type Store interface {
	Create(ctx context.Context, entry domain.ArchiveEntry) error
	Find(ctx context.Context, key domain.ArchiveKey) ([]domain.ArchiveEntry, error)
	ListDay(ctx context.Context, day int64) ([]domain.ArchiveEntry, error)
}

type MarketSource interface {
	Markets(ctx context.Context, currency string, limit int) ([]domain.MarketCoin, error)
}

type CoinResolver interface {
	Resolve(input string) (domain.CoinRecord, error)
}

type DateParser interface {
	Parse(raw string) (time.Time, error)
}

// Service writes daily price snapshots and answers point-in-time lookups.
type Service struct {
	tracer   trace.Tracer
	store    Store
	markets  MarketSource
	resolver CoinResolver
	dates    DateParser
	now      func() time.Time
}

func NewService(tracer trace.Tracer, store Store, markets MarketSource, resolver CoinResolver, dates DateParser) *Service {
	return &Service{
		tracer:   tracer,
		store:    store,
		markets:  markets,
		resolver: resolver,
		dates:    dates,
		now:      time.Now,
	}
}

// Archive fetches the top limit coins by market rank and stores one row per
// coin for the current calendar day.
func (s *Service) Archive(ctx context.Context, limit int) ([]domain.ArchiveEntry, error) {
	ctx, span := s.tracer.Start(ctx, "archive-service.archive")
	defer span.End()

	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	span.SetAttributes(attribute.Int("limit", limit))

	coins, err := s.markets.Markets(ctx, currency, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}

	today := s.now()
	entries := make([]domain.ArchiveEntry, 0, len(coins))
	for _, c := range coins {
		entry := domain.ArchiveEntry{
			Key:      domain.NewArchiveKey(c.ID, today),
			CoinName: c.Name,
			PriceUSD: domain.FormatPrice(c.CurrentPrice),
		}
		if err := s.store.Create(ctx, entry); err != nil {
			return entries, fmt.Errorf("archive %s: %w", c.ID, err)
		}
		entries = append(entries, entry)
	}

	log.Printf("Archived %d coins for %s", len(entries), domain.CalendarDay(today).Format("2006-01-02"))
	return entries, nil
}

// Query looks up the archived row for coin on rawDate. It never calls the
// remote API; a missing row yields (nil, nil).
func (s *Service) Query(ctx context.Context, coin, rawDate string) (*domain.ArchiveEntry, error) {
	ctx, span := s.tracer.Start(ctx, "archive-service.query")
	defer span.End()

	day, err := s.dates.Parse(rawDate)
	if err != nil {
		return nil, err
	}

	record, err := s.resolver.Resolve(coin)
	if err != nil {
		return nil, err
	}

	key := domain.NewArchiveKey(record.ID, day)
	span.SetAttributes(attribute.String("coin_id", key.CoinID), attribute.Int64("day", key.Day))

	rows, err := s.store.Find(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find archive entry: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Day lists every row archived on the calendar day rawDate names.
func (s *Service) Day(ctx context.Context, rawDate string) ([]domain.ArchiveEntry, error) {
	ctx, span := s.tracer.Start(ctx, "archive-service.day")
	defer span.End()

	day, err := s.dates.Parse(rawDate)
	if err != nil {
		return nil, err
	}
	return s.store.ListDay(ctx, day.Unix())
}

// ArchivedToday counts the rows stored for the current calendar day.
func (s *Service) ArchivedToday(ctx context.Context) (int, error) {
	rows, err := s.store.ListDay(ctx, domain.CalendarDay(s.now()).Unix())
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
