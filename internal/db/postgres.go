package db

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

// Pool is nil when Postgres is unavailable; the app then runs on the
// in-memory store and trade log instead.
var Pool *pgxpool.Pool

var (
	newPool = func(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error) {
		return pgxpool.NewWithConfig(ctx, cfg)
	}
	pingPool = func(ctx context.Context, pool *pgxpool.Pool) error {
		return pool.Ping(ctx)
	}
)

// InitPostgres connects the trade log and vector memory backend. Every
// pooled connection registers the pgvector types so embeddings scan
// directly into vector values. A missing or unreachable database leaves
// Pool nil and the app degrades to in-memory storage.
func InitPostgres(ctx context.Context, databaseURL string) {
	if databaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, using in-memory storage")
		return
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		log.Printf("Warning: failed to parse DATABASE_URL, using in-memory storage: %v", err)
		return
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := newPool(ctx, cfg)
	if err != nil {
		log.Printf("Warning: failed to create connection pool, using in-memory storage: %v", err)
		return
	}
	if err := pingPool(ctx, pool); err != nil {
		pool.Close()
		log.Printf("Warning: failed to connect to Postgres, using in-memory storage: %v", err)
		return
	}

	Pool = pool
	log.Println("Connected to Postgres")
}
