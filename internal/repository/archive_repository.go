package repository

import (
	"context"

	"coinquery/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createPriceArchiveTable = `
CREATE TABLE IF NOT EXISTS price_archive (
    coin_id  TEXT    NOT NULL,
    day      BIGINT  NOT NULL,
    cname    TEXT    NOT NULL,
    price    TEXT    NOT NULL,
    PRIMARY KEY (coin_id, day)
);

CREATE INDEX IF NOT EXISTS idx_price_archive_day
    ON price_archive (day);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ArchiveRepository is the Postgres-backed archive store.
type ArchiveRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewArchiveRepository(pool PgxPool, tracer trace.Tracer) *ArchiveRepository {
	return &ArchiveRepository{pool: pool, tracer: tracer}
}

func (r *ArchiveRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "archive-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createPriceArchiveTable)
	return err
}

// Create inserts the row or replaces cname and price of an existing row.
func (r *ArchiveRepository) Create(ctx context.Context, entry domain.ArchiveEntry) error {
	_, span := r.tracer.Start(ctx, "archive-repo.create")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO price_archive (coin_id, day, cname, price)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (coin_id, day) DO UPDATE SET
		     cname = EXCLUDED.cname,
		     price = EXCLUDED.price`,
		entry.Key.CoinID, entry.Key.Day, entry.CoinName, entry.PriceUSD,
	)
	return err
}

func (r *ArchiveRepository) Find(ctx context.Context, key domain.ArchiveKey) ([]domain.ArchiveEntry, error) {
	_, span := r.tracer.Start(ctx, "archive-repo.find")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT coin_id, day, cname, price
		 FROM price_archive
		 WHERE coin_id = $1 AND day = $2`,
		key.CoinID, key.Day,
	)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (r *ArchiveRepository) ListDay(ctx context.Context, day int64) ([]domain.ArchiveEntry, error) {
	_, span := r.tracer.Start(ctx, "archive-repo.list-day")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT coin_id, day, cname, price
		 FROM price_archive
		 WHERE day = $1
		 ORDER BY coin_id`,
		day,
	)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]domain.ArchiveEntry, error) {
	defer rows.Close()

	var entries []domain.ArchiveEntry
	for rows.Next() {
		var e domain.ArchiveEntry
		if err := rows.Scan(&e.Key.CoinID, &e.Key.Day, &e.CoinName, &e.PriceUSD); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
