package resolver

import (
	"errors"
	"strings"
	"testing"

	"coinquery/internal/catalog"
	"coinquery/internal/domain"
)

func testCatalog() domain.Catalog {
	return domain.Catalog{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
		{ID: "litecoin", Symbol: "ltc", Name: "Litecoin"},
		{ID: "batcat", Symbol: "btc", Name: "Batcat"},
		{ID: "ethereum-wormhole", Symbol: "weth", Name: "Ethereum"},
	}
}

func TestResolveBySymbolAndNameAnyCase(t *testing.T) {
	r := New(domain.Catalog{{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}})

	for _, input := range []string{"BTC", "btc", "bitcoin", "Bitcoin", "  BiTcOiN "} {
		id, err := r.ResolveID(input)
		if err != nil {
			t.Fatalf("ResolveID(%q) unexpected error: %v", input, err)
		}
		if id != "bitcoin" {
			t.Fatalf("ResolveID(%q) expected bitcoin, got %s", input, id)
		}
	}
}

func TestResolveEveryRecord(t *testing.T) {
	c := domain.Catalog{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
		{ID: "litecoin", Symbol: "ltc", Name: "Litecoin"},
	}
	r := New(c)
	for _, coin := range c {
		for _, input := range []string{coin.Symbol, strings.ToUpper(coin.Symbol), coin.Name, strings.ToLower(coin.Name)} {
			got, err := r.Resolve(input)
			if err != nil || got.ID != coin.ID {
				t.Fatalf("Resolve(%q) expected %s, got %+v (%v)", input, coin.ID, got, err)
			}
		}
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	r := New(testCatalog())

	id, err := r.ResolveID("BTC")
	if err != nil || id != "bitcoin" {
		t.Fatalf("duplicate symbol should resolve to first record, got %s (%v)", id, err)
	}
	id, err = r.ResolveID("ethereum")
	if err != nil || id != "ethereum" {
		t.Fatalf("duplicate name should resolve to first record, got %s (%v)", id, err)
	}
	id, err = r.ResolveID("weth")
	if err != nil || id != "ethereum-wormhole" {
		t.Fatalf("unique symbol should resolve, got %s (%v)", id, err)
	}
}

func TestResolveName(t *testing.T) {
	r := New(testCatalog())
	name, err := r.ResolveName("ltc")
	if err != nil || name != "Litecoin" {
		t.Fatalf("expected Litecoin, got %s (%v)", name, err)
	}
}

func TestResolveUnknownWithSuggestion(t *testing.T) {
	c := testCatalog()
	r := New(c, WithSuggester(catalog.NewIndex(c.Vocabulary())))

	_, err := r.Resolve("totally-unknown-token")
	var qe *domain.QueryError
	if !errors.As(err, &qe) || qe.Kind != domain.KindUnknownCoin {
		t.Fatalf("expected unknown coin error, got %v", err)
	}
	if qe.Suggestion == "" {
		t.Fatal("expected a suggestion")
	}

	_, err = r.Resolve("Etherium")
	if !errors.As(err, &qe) || qe.Suggestion != "Ethereum" {
		t.Fatalf("expected Ethereum suggestion, got %v", err)
	}
	if !strings.Contains(err.Error(), "Did you mean Ethereum?") {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestResolveUnknownWithoutSuggestion(t *testing.T) {
	r := New(testCatalog())

	_, err := r.Resolve("totally-unknown-token")
	var qe *domain.QueryError
	if !errors.As(err, &qe) || qe.Kind != domain.KindUnknownCoin {
		t.Fatalf("expected unknown coin error, got %v", err)
	}
	if qe.Suggestion != "" {
		t.Fatalf("expected empty suggestion, got %q", qe.Suggestion)
	}
	if !errors.Is(err, domain.ErrUnknownCoin) {
		t.Fatal("expected sentinel match")
	}
}

func TestResolveWithoutAutofindTrustsCaller(t *testing.T) {
	r := New(nil, WithoutAutofind())

	coin, err := r.Resolve("Some-Canonical-ID")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coin.ID != "Some-Canonical-ID" {
		t.Fatalf("expected raw input as id, got %+v", coin)
	}
}
