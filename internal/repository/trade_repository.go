package repository

import (
	"context"

	"penny-wise/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createTradeLogsTable = `
CREATE TABLE IF NOT EXISTS trade_logs (
    id          SERIAL PRIMARY KEY,
    timestamp   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    symbol      TEXT        NOT NULL,
    action      TEXT        NOT NULL,
    price       FLOAT       NOT NULL,
    quantity    INT         NOT NULL,
    reason      TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trade_logs_symbol_time
    ON trade_logs (symbol, timestamp DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TradeRepository persists executed trades to Postgres.
type TradeRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewTradeRepository(pool PgxPool, tracer trace.Tracer) *TradeRepository {
	return &TradeRepository{pool: pool, tracer: tracer}
}

func (r *TradeRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "trade-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createTradeLogsTable)
	return err
}

func (r *TradeRepository) LogTrade(ctx context.Context, record domain.TradeRecord) error {
	_, span := r.tracer.Start(ctx, "trade-repo.log-trade")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO trade_logs (timestamp, symbol, action, price, quantity, reason)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.Timestamp, record.Symbol, string(record.Action), record.Price, record.Quantity, record.Reason,
	)
	return err
}

func (r *TradeRepository) RecentTrades(ctx context.Context, limit int) ([]domain.TradeRecord, error) {
	_, span := r.tracer.Start(ctx, "trade-repo.recent-trades")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx,
		`SELECT symbol, timestamp, action, price, quantity, reason
		 FROM trade_logs
		 ORDER BY timestamp DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.TradeRecord
	for rows.Next() {
		var rec domain.TradeRecord
		var action string
		if err := rows.Scan(&rec.Symbol, &rec.Timestamp, &action, &rec.Price, &rec.Quantity, &rec.Reason); err != nil {
			return nil, err
		}
		rec.Action = domain.TradeAction(action)
		records = append(records, rec)
	}
	return records, rows.Err()
}
