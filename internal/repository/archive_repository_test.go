package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"coinquery/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type fakePool struct {
	execSQL  []string
	execArgs [][]any
	execErr  error

	querySQL  string
	queryArgs []any
	rows      [][]any
	queryErr  error
}

func (p *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.execSQL = append(p.execSQL, sql)
	p.execArgs = append(p.execArgs, args)
	return pgconn.NewCommandTag("INSERT 0 1"), p.execErr
}

func (p *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.querySQL = sql
	p.queryArgs = args
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	return &fakeRows{data: p.rows, idx: -1}, nil
}

type fakeRows struct {
	data   [][]any
	idx    int
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.idx], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: expected %d dest, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int64:
			*p = row[i].(int64)
		default:
			return fmt.Errorf("scan: unsupported dest %T", d)
		}
	}
	return nil
}

func TestArchiveRepositoryCreateUpserts(t *testing.T) {
	pool := &fakePool{}
	repo := NewArchiveRepository(pool, testTracer)

	entry := domain.ArchiveEntry{
		Key:      domain.ArchiveKey{CoinID: "bitcoin", Day: 1704153600},
		CoinName: "Bitcoin",
		PriceUSD: "45123.45",
	}
	if err := repo.Create(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(pool.execSQL[0], "ON CONFLICT (coin_id, day) DO UPDATE") {
		t.Fatalf("expected upsert, got %s", pool.execSQL[0])
	}
	args := pool.execArgs[0]
	if args[0] != "bitcoin" || args[1] != int64(1704153600) || args[2] != "Bitcoin" || args[3] != "45123.45" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestArchiveRepositoryFind(t *testing.T) {
	pool := &fakePool{rows: [][]any{{"bitcoin", int64(1704153600), "Bitcoin", "45123.45"}}}
	repo := NewArchiveRepository(pool, testTracer)

	key := domain.ArchiveKey{CoinID: "bitcoin", Day: 1704153600}
	rows, err := repo.Find(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Key != key || rows[0].CoinName != "Bitcoin" || rows[0].PriceUSD != "45123.45" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if pool.queryArgs[0] != "bitcoin" || pool.queryArgs[1] != int64(1704153600) {
		t.Fatalf("unexpected query args: %+v", pool.queryArgs)
	}
}

func TestArchiveRepositoryListDay(t *testing.T) {
	pool := &fakePool{rows: [][]any{
		{"bitcoin", int64(1704153600), "Bitcoin", "1"},
		{"ethereum", int64(1704153600), "Ethereum", "2"},
	}}
	repo := NewArchiveRepository(pool, testTracer)

	rows, err := repo.ListDay(context.Background(), 1704153600)
	if err != nil || len(rows) != 2 {
		t.Fatalf("unexpected rows: %+v (%v)", rows, err)
	}
	if !strings.Contains(pool.querySQL, "WHERE day = $1") {
		t.Fatalf("unexpected sql: %s", pool.querySQL)
	}
}

func TestArchiveRepositoryErrors(t *testing.T) {
	boom := errors.New("boom")
	repo := NewArchiveRepository(&fakePool{queryErr: boom, execErr: boom}, testTracer)

	if _, err := repo.Find(context.Background(), domain.ArchiveKey{}); !errors.Is(err, boom) {
		t.Fatalf("expected query error, got %v", err)
	}
	if err := repo.Create(context.Background(), domain.ArchiveEntry{}); !errors.Is(err, boom) {
		t.Fatalf("expected exec error, got %v", err)
	}
	if err := repo.RunMigrations(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected migration error, got %v", err)
	}
}
