package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"coinquery/internal/archive"
	"coinquery/internal/calendar"
	"coinquery/internal/catalog"
	"coinquery/internal/domain"
	"coinquery/internal/resolver"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	currency         = "usd"
	defaultCoinLimit = 5
)

// Gateway is the remote API seam; see provider.CoinGeckoGateway.
type Gateway interface {
	Ping(ctx context.Context) (map[string]string, error)
	CoinsList(ctx context.Context) (domain.Catalog, error)
	Markets(ctx context.Context, currency string, limit int) ([]domain.MarketCoin, error)
	History(ctx context.Context, id string, day time.Time, currency string) (float64, error)
	SimplePrice(ctx context.Context, id, currency string) (float64, error)
}

type CatalogLoader interface {
	Load(ctx context.Context) (*catalog.Snapshot, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

type Options struct {
	Autofind      bool
	DYM           bool
	Debug         bool
	PriceCacheTTL time.Duration
}

func DefaultOptions() Options {
	return Options{Autofind: true, DYM: true, PriceCacheTTL: time.Minute}
}

// QueryService resolves coins, fetches live and historical prices and manages
// the price archive. New performs no I/O; Connect must succeed before any
// operation that needs the coin catalog.
type QueryService struct {
	tracer   trace.Tracer
	gateway  Gateway
	catalogs CatalogLoader
	redis    RedisClient
	dates    *calendar.Parser
	archive  *archive.Service
	opts     Options

	mu       sync.RWMutex
	snapshot *catalog.Snapshot
	resolver *resolver.Resolver
}

func New(
	tracer trace.Tracer,
	gateway Gateway,
	catalogs CatalogLoader,
	archiveStore archive.Store,
	redisClient RedisClient,
	opts Options,
) *QueryService {
	s := &QueryService{
		tracer:   tracer,
		gateway:  gateway,
		catalogs: catalogs,
		redis:    redisClient,
		dates:    calendar.NewParser(),
		opts:     opts,
	}
	if !opts.Autofind {
		s.resolver = resolver.New(nil, resolver.WithoutAutofind())
	}
	s.archive = archive.NewService(tracer, archiveStore, gateway, s, s.dates)
	return s
}

// Connect pings the remote API and, when autofind is on, loads or fetches the
// coin catalog and builds the resolver. It returns the ping response.
func (s *QueryService) Connect(ctx context.Context) (map[string]string, error) {
	ctx, span := s.tracer.Start(ctx, "query-service.connect")
	defer span.End()

	pong, err := s.gateway.Ping(ctx)
	if err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := s.LoadCatalog(ctx); err != nil {
		return pong, err
	}
	return pong, nil
}

// LoadCatalog builds the resolver from the coin catalog without pinging the
// remote API. A persisted snapshot needs no network at all, which is enough
// for archive lookups while CoinGecko is unreachable.
func (s *QueryService) LoadCatalog(ctx context.Context) error {
	if !s.opts.Autofind {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "query-service.load-catalog")
	defer span.End()

	snap, err := s.catalogs.Load(ctx)
	if err != nil {
		return err
	}

	opts := []resolver.Option{resolver.WithDebug(s.opts.Debug)}
	if s.opts.DYM {
		if ix := snap.Index(); ix != nil {
			if s.opts.Debug {
				log.Printf("loading did you mean index (%d words)", ix.Len())
			}
			opts = append(opts, resolver.WithSuggester(ix))
		}
	}

	s.mu.Lock()
	s.snapshot = snap
	s.resolver = resolver.New(snap.Catalog, opts...)
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("catalog_size", len(snap.Catalog)))
	return nil
}

// Connected reports whether coin resolution is available.
func (s *QueryService) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolver != nil
}

func (s *QueryService) Ping(ctx context.Context) (map[string]string, error) {
	return s.gateway.Ping(ctx)
}

func (s *QueryService) Resolve(input string) (domain.CoinRecord, error) {
	s.mu.RLock()
	r := s.resolver
	s.mu.RUnlock()
	if r == nil {
		return domain.CoinRecord{}, domain.NewError(domain.KindNotConnected, "call Connect first", nil)
	}
	return r.Resolve(input)
}

func (s *QueryService) ResolveID(input string) (string, error) {
	coin, err := s.Resolve(input)
	if err != nil {
		return "", err
	}
	return coin.ID, nil
}

func (s *QueryService) ResolveName(input string) (string, error) {
	coin, err := s.Resolve(input)
	if err != nil {
		return "", err
	}
	return coin.Name, nil
}

// Coins lists the top coins by market rank; limit <= 0 means 5.
func (s *QueryService) Coins(ctx context.Context, limit int) ([]domain.MarketCoin, error) {
	ctx, span := s.tracer.Start(ctx, "query-service.coins")
	defer span.End()

	if limit <= 0 {
		limit = defaultCoinLimit
	}
	return s.gateway.Markets(ctx, currency, limit)
}

// CoinsList returns the cached catalog, or nil before Connect.
func (s *QueryService) CoinsList() domain.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.Catalog
}

// Price returns the live USD price of coin under the display rounding rule.
func (s *QueryService) Price(ctx context.Context, coin string) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "query-service.price")
	defer span.End()

	id, err := s.ResolveID(coin)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.String("coin_id", id))

	if s.redis != nil {
		cached, err := s.getPriceCache(ctx, id)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if cached != nil {
			return domain.DisplayPrice(cached.Price), nil
		}
	}

	raw, err := s.gateway.SimplePrice(ctx, id, currency)
	if err != nil {
		return 0, err
	}

	if s.redis != nil {
		snap := &domain.PriceSnapshot{CoinID: id, Currency: currency, Price: raw, LastUpdatedUnix: time.Now().Unix()}
		if err := s.setPriceCache(ctx, snap); err != nil {
			log.Printf("redis cache write error for %s: %v", id, err)
		}
	}
	return domain.DisplayPrice(raw), nil
}

// HistoricalPrice returns the USD price of coin on the day rawDate names,
// e.g. HistoricalPrice(ctx, "Bitcoin", "01-05-2021").
func (s *QueryService) HistoricalPrice(ctx context.Context, coin, rawDate string) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "query-service.historical-price")
	defer span.End()

	day, err := s.dates.Parse(rawDate)
	if err != nil {
		return 0, err
	}

	id, err := s.ResolveID(coin)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.String("coin_id", id))

	raw, err := s.gateway.History(ctx, id, day, currency)
	if err != nil {
		return 0, err
	}
	return domain.DisplayPrice(raw), nil
}

// History is an alias of HistoricalPrice.
func (s *QueryService) History(ctx context.Context, coin, rawDate string) (float64, error) {
	return s.HistoricalPrice(ctx, coin, rawDate)
}

// Archive stores today's prices for the top limit coins.
func (s *QueryService) Archive(ctx context.Context, limit int) ([]domain.ArchiveEntry, error) {
	return s.archive.Archive(ctx, limit)
}

// QueryArchive returns the archived row for coin on rawDate, or nil.
func (s *QueryService) QueryArchive(ctx context.Context, coin, rawDate string) (*domain.ArchiveEntry, error) {
	return s.archive.Query(ctx, coin, rawDate)
}

func (s *QueryService) ArchiveDay(ctx context.Context, rawDate string) ([]domain.ArchiveEntry, error) {
	return s.archive.Day(ctx, rawDate)
}

func (s *QueryService) ArchivedToday(ctx context.Context) (int, error) {
	return s.archive.ArchivedToday(ctx)
}

func priceCacheKey(id string) string {
	return "price:" + id + ":" + currency
}

func (s *QueryService) setPriceCache(ctx context.Context, snapshot *domain.PriceSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, priceCacheKey(snapshot.CoinID), data, s.opts.PriceCacheTTL).Err()
}

func (s *QueryService) getPriceCache(ctx context.Context, id string) (*domain.PriceSnapshot, error) {
	data, err := s.redis.Get(ctx, priceCacheKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snapshot domain.PriceSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
