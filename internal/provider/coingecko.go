package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coinquery/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout = 5 * time.Second
	historyDate    = "02-01-2006"
)

// CoinGeckoGateway is the only component that talks to the CoinGecko API.
// Every call runs under its own deadline and fails with a *domain.QueryError.
type CoinGeckoGateway struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	tracer  trace.Tracer
	limiter *RateLimiter
	debug   bool
}

// NewCoinGeckoGateway creates a gateway rate limited to the free tier
// (30 calls per minute, bursts of 10).
func NewCoinGeckoGateway(tracer trace.Tracer, baseURL string, timeout time.Duration, debug bool) *CoinGeckoGateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &CoinGeckoGateway{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		tracer:  tracer,
		limiter: NewRateLimiter(10, 2*time.Second),
		debug:   debug,
	}
}

// Call issues GET <base>/<path> and decodes the JSON body into out.
func (g *CoinGeckoGateway) Call(ctx context.Context, path string, out any) error {
	ctx, span := g.tracer.Start(ctx, "coingecko.call")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if g.debug {
		log.Printf("coingecko: GET %s", path)
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return classifyTransportError(path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/"+strings.TrimLeft(path, "/"), nil)
	if err != nil {
		return domain.NewError(domain.KindBadRequest, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return classifyTransportError(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		detail := fmt.Sprintf("%s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return domain.NewError(domain.KindBadRequest, detail, nil)
		}
		return domain.NewError(domain.KindUnavailable, detail, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			return domain.NewError(domain.KindTimeout, path, err)
		}
		return domain.NewError(domain.KindUnavailable, "decode "+path, err)
	}
	return nil
}

// Ping probes connectivity. The response looks like {"gecko_says":"(V3) To the Moon!"}.
func (g *CoinGeckoGateway) Ping(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	if err := g.Call(ctx, "ping", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CoinsList fetches the full coin catalog.
func (g *CoinGeckoGateway) CoinsList(ctx context.Context) (domain.Catalog, error) {
	var out domain.Catalog
	if err := g.Call(ctx, "coins/list", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Markets lists the top coins by market rank.
func (g *CoinGeckoGateway) Markets(ctx context.Context, currency string, limit int) ([]domain.MarketCoin, error) {
	path := fmt.Sprintf("coins/markets?vs_currency=%s&per_page=%d", url.QueryEscape(currency), limit)
	var out []domain.MarketCoin
	if err := g.Call(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// History returns the price of id in currency on the given calendar day.
func (g *CoinGeckoGateway) History(ctx context.Context, id string, day time.Time, currency string) (float64, error) {
	date := day.Format(historyDate)
	path := fmt.Sprintf("coins/%s/history?date=%s", url.PathEscape(id), date)

	var out struct {
		MarketData *struct {
			CurrentPrice map[string]float64 `json:"current_price"`
		} `json:"market_data"`
	}
	if err := g.Call(ctx, path, &out); err != nil {
		return 0, err
	}
	if out.MarketData == nil {
		return 0, domain.NewError(domain.KindBadRequest, fmt.Sprintf("no market data for %s on %s", id, date), nil)
	}
	price, ok := out.MarketData.CurrentPrice[currency]
	if !ok {
		return 0, domain.NewError(domain.KindBadRequest, fmt.Sprintf("no %s price for %s on %s", currency, id, date), nil)
	}
	return price, nil
}

// SimplePrice returns the current price of id in currency.
func (g *CoinGeckoGateway) SimplePrice(ctx context.Context, id, currency string) (float64, error) {
	path := fmt.Sprintf("simple/price?ids=%s&vs_currencies=%s", url.QueryEscape(id), url.QueryEscape(currency))

	// Response shape: {"bitcoin": {"usd": 97000}}
	var out map[string]map[string]float64
	if err := g.Call(ctx, path, &out); err != nil {
		return 0, err
	}
	price, ok := out[id][currency]
	if !ok {
		return 0, domain.NewError(domain.KindBadRequest, fmt.Sprintf("no %s price for %s", currency, id), nil)
	}
	return price, nil
}

func classifyTransportError(path string, err error) error {
	if isTimeout(err) {
		return domain.NewError(domain.KindTimeout, path, err)
	}
	return domain.NewError(domain.KindUnavailable, path, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
