package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"coinquery/internal/domain"
)

func TestFileStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coinquery.db")
	ctx := context.Background()

	store, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key := domain.ArchiveKey{CoinID: "bitcoin", Day: 1704153600}
	if err := store.Create(ctx, domain.ArchiveEntry{Key: key, CoinName: "Bitcoin", PriceUSD: "45123.45"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	rows, err := reopened.Find(ctx, key)
	if err != nil || len(rows) != 1 || rows[0].CoinName != "Bitcoin" {
		t.Fatalf("unexpected rows: %+v (%v)", rows, err)
	}
}

func TestFileStoreUpsert(t *testing.T) {
	store, err := OpenFileStore(filepath.Join(t.TempDir(), "coinquery.db"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	key := domain.ArchiveKey{CoinID: "bitcoin", Day: 1704153600}

	_ = store.Create(ctx, domain.ArchiveEntry{Key: key, CoinName: "Bitcoin", PriceUSD: "1"})
	_ = store.Create(ctx, domain.ArchiveEntry{Key: key, CoinName: "Bitcoin", PriceUSD: "2"})
	_ = store.Create(ctx, domain.ArchiveEntry{Key: domain.ArchiveKey{CoinID: "bitcoin", Day: 1704240000}, CoinName: "Bitcoin", PriceUSD: "3"})

	if store.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", store.Len())
	}
	rows, _ := store.Find(ctx, key)
	if rows[0].PriceUSD != "2" {
		t.Fatalf("expected overwrite, got %+v", rows[0])
	}
	day, _ := store.ListDay(ctx, 1704240000)
	if len(day) != 1 || day[0].PriceUSD != "3" {
		t.Fatalf("unexpected day rows: %+v", day)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := OpenFileStore(filepath.Join(t.TempDir(), "coinquery.db"))
	if err != nil {
		t.Fatal(err)
	}
	rows, err := store.Find(context.Background(), domain.ArchiveKey{CoinID: "bitcoin", Day: 1})
	if err != nil || len(rows) != 0 {
		t.Fatalf("expected no rows, got %+v (%v)", rows, err)
	}
}

func TestOpenFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coinquery.db")
	if err := os.WriteFile(path, []byte{0xc1}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFileStore(path); err == nil {
		t.Fatal("expected decode error")
	}
}
