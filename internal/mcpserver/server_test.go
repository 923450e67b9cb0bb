package mcpserver

import (
	"context"
	"testing"

	"coinquery/internal/domain"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"
)

type stubQuerier struct {
	limit   int
	date    string
	entry   *domain.ArchiveEntry
	history float64
}

func (s *stubQuerier) Resolve(input string) (domain.CoinRecord, error) {
	if input == "btc" {
		return domain.CoinRecord{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}, nil
	}
	return domain.CoinRecord{}, domain.UnknownCoin("btc")
}

func (s *stubQuerier) Coins(ctx context.Context, limit int) ([]domain.MarketCoin, error) {
	s.limit = limit
	return []domain.MarketCoin{{ID: "bitcoin"}}, nil
}

func (s *stubQuerier) Price(ctx context.Context, coin string) (float64, error) {
	if _, err := s.Resolve(coin); err != nil {
		return 0, err
	}
	return 60123.46, nil
}

func (s *stubQuerier) HistoricalPrice(ctx context.Context, coin, rawDate string) (float64, error) {
	return s.history, nil
}

func (s *stubQuerier) QueryArchive(ctx context.Context, coin, rawDate string) (*domain.ArchiveEntry, error) {
	s.date = rawDate
	return s.entry, nil
}

func newTools(q Querier) *tools {
	return &tools{tracer: trace.NewNoopTracerProvider().Tracer("test"), queries: q}
}

func TestResolveCoinTool(t *testing.T) {
	tl := newTools(&stubQuerier{})

	_, coin, err := tl.resolveCoin(context.Background(), nil, CoinInput{Coin: "btc"})
	if err != nil || coin.ID != "bitcoin" {
		t.Fatalf("resolve = %+v, %v", coin, err)
	}
	_, _, err = tl.resolveCoin(context.Background(), nil, CoinInput{Coin: "btx"})
	if domain.KindOf(err) != domain.KindUnknownCoin {
		t.Fatalf("expected unknown coin, got %v", err)
	}
}

func TestHistoricalPriceToolRequiresDate(t *testing.T) {
	tl := newTools(&stubQuerier{history: 57714.67})

	if _, _, err := tl.getHistoricalPrice(context.Background(), nil, HistoryInput{Coin: "btc"}); err == nil {
		t.Fatal("expected error without date")
	}
	_, out, err := tl.getHistoricalPrice(context.Background(), nil, HistoryInput{Coin: "btc", Date: "01-05-2021"})
	if err != nil || out.Price != 57714.67 || out.Date != "01-05-2021" {
		t.Fatalf("history = %+v, %v", out, err)
	}
}

func TestTopCoinsToolCapsLimit(t *testing.T) {
	stub := &stubQuerier{}
	tl := newTools(stub)

	if _, _, err := tl.topCoins(context.Background(), nil, TopCoinsInput{Limit: 1000}); err != nil {
		t.Fatalf("top coins: %v", err)
	}
	if stub.limit != 250 {
		t.Fatalf("expected limit capped at 250, got %d", stub.limit)
	}
}

func TestQueryArchiveToolDefaultsToToday(t *testing.T) {
	stub := &stubQuerier{}
	tl := newTools(stub)

	_, out, err := tl.queryArchive(context.Background(), nil, ArchiveInput{Coin: "btc"})
	if err != nil || out.Found {
		t.Fatalf("archive = %+v, %v", out, err)
	}
	if stub.date != "today" {
		t.Fatalf("expected default date today, got %q", stub.date)
	}
}

func TestServerCallToolOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	server := New(trace.NewNoopTracerProvider().Tracer("test"), &stubQuerier{}, "test")

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_price",
		Arguments: map[string]any{"coin": "btc"},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	out, ok := res.StructuredContent.(map[string]any)
	if !ok || out["price"] != 60123.46 {
		t.Fatalf("unexpected structured content %#v", res.StructuredContent)
	}

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_price",
		Arguments: map[string]any{"coin": "btx"},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for unknown coin")
	}
}
