// Package mcpserver exposes coin queries as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"fmt"

	"coinquery/internal/domain"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Querier interface {
	Resolve(input string) (domain.CoinRecord, error)
	Coins(ctx context.Context, limit int) ([]domain.MarketCoin, error)
	Price(ctx context.Context, coin string) (float64, error)
	HistoricalPrice(ctx context.Context, coin, rawDate string) (float64, error)
	QueryArchive(ctx context.Context, coin, rawDate string) (*domain.ArchiveEntry, error)
}

type CoinInput struct {
	Coin string `json:"coin" jsonschema:"coin symbol or display name, e.g. btc or Bitcoin"`
}

type HistoryInput struct {
	Coin string `json:"coin" jsonschema:"coin symbol or display name"`
	Date string `json:"date" jsonschema:"calendar day, day first, e.g. 01-05-2021"`
}

type ArchiveInput struct {
	Coin string `json:"coin" jsonschema:"coin symbol or display name"`
	Date string `json:"date,omitempty" jsonschema:"calendar day, day first; defaults to today"`
}

type TopCoinsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"number of coins, default 5"`
}

type PriceOutput struct {
	Coin     string  `json:"coin"`
	Date     string  `json:"date,omitempty"`
	Currency string  `json:"currency"`
	Price    float64 `json:"price"`
}

type TopCoinsOutput struct {
	Coins []domain.MarketCoin `json:"coins"`
}

type ArchiveOutput struct {
	Found bool                 `json:"found"`
	Entry *domain.ArchiveEntry `json:"entry,omitempty"`
}

type tools struct {
	tracer  trace.Tracer
	queries Querier
}

// New builds an MCP server with the coin query tools registered.
func New(tracer trace.Tracer, queries Querier, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "coinquery", Version: version}, nil)
	t := &tools{tracer: tracer, queries: queries}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_coin",
		Description: "Resolve a coin symbol or name to its CoinGecko id, symbol and name.",
	}, t.resolveCoin)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_price",
		Description: "Current USD price of a coin.",
	}, t.getPrice)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_historical_price",
		Description: "USD price of a coin on a past calendar day.",
	}, t.getHistoricalPrice)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "top_coins",
		Description: "Top coins by market capitalisation with current USD prices.",
	}, t.topCoins)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_archive",
		Description: "Look up a locally archived daily price without calling CoinGecko.",
	}, t.queryArchive)

	return server
}

func (t *tools) resolveCoin(ctx context.Context, _ *mcp.CallToolRequest, in CoinInput) (*mcp.CallToolResult, domain.CoinRecord, error) {
	_, span := t.tracer.Start(ctx, "mcp.resolve-coin")
	defer span.End()
	span.SetAttributes(attribute.String("coin", in.Coin))

	coin, err := t.queries.Resolve(in.Coin)
	if err != nil {
		return nil, domain.CoinRecord{}, err
	}
	return nil, coin, nil
}

func (t *tools) getPrice(ctx context.Context, _ *mcp.CallToolRequest, in CoinInput) (*mcp.CallToolResult, PriceOutput, error) {
	ctx, span := t.tracer.Start(ctx, "mcp.get-price")
	defer span.End()
	span.SetAttributes(attribute.String("coin", in.Coin))

	price, err := t.queries.Price(ctx, in.Coin)
	if err != nil {
		return nil, PriceOutput{}, err
	}
	return nil, PriceOutput{Coin: in.Coin, Currency: "usd", Price: price}, nil
}

func (t *tools) getHistoricalPrice(ctx context.Context, _ *mcp.CallToolRequest, in HistoryInput) (*mcp.CallToolResult, PriceOutput, error) {
	ctx, span := t.tracer.Start(ctx, "mcp.get-historical-price")
	defer span.End()
	span.SetAttributes(attribute.String("coin", in.Coin), attribute.String("date", in.Date))

	if in.Date == "" {
		return nil, PriceOutput{}, fmt.Errorf("date is required")
	}
	price, err := t.queries.HistoricalPrice(ctx, in.Coin, in.Date)
	if err != nil {
		return nil, PriceOutput{}, err
	}
	return nil, PriceOutput{Coin: in.Coin, Date: in.Date, Currency: "usd", Price: price}, nil
}

func (t *tools) topCoins(ctx context.Context, _ *mcp.CallToolRequest, in TopCoinsInput) (*mcp.CallToolResult, TopCoinsOutput, error) {
	ctx, span := t.tracer.Start(ctx, "mcp.top-coins")
	defer span.End()

	limit := in.Limit
	if limit > 250 {
		limit = 250
	}
	coins, err := t.queries.Coins(ctx, limit)
	if err != nil {
		return nil, TopCoinsOutput{}, err
	}
	return nil, TopCoinsOutput{Coins: coins}, nil
}

func (t *tools) queryArchive(ctx context.Context, _ *mcp.CallToolRequest, in ArchiveInput) (*mcp.CallToolResult, ArchiveOutput, error) {
	ctx, span := t.tracer.Start(ctx, "mcp.query-archive")
	defer span.End()

	date := in.Date
	if date == "" {
		date = "today"
	}
	entry, err := t.queries.QueryArchive(ctx, in.Coin, date)
	if err != nil {
		return nil, ArchiveOutput{}, err
	}
	return nil, ArchiveOutput{Found: entry != nil, Entry: entry}, nil
}
