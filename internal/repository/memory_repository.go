package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"penny-wise/internal/domain"
	"penny-wise/internal/memory"

	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel/trace"
)

const createAgentMemoryTable = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS agent_memory (
    id            SERIAL PRIMARY KEY,
    agent_type    TEXT        NOT NULL,
    memory_vector VECTOR(384) NOT NULL,
    metadata      JSONB       NOT NULL DEFAULT '{}',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_agent_memory_agent_type
    ON agent_memory (agent_type);
`

// MemoryRepository is the persistent memory.Store backend: pgvector over
// Postgres, with true similarity ranking on retrieval.
type MemoryRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

var _ memory.Store = (*MemoryRepository)(nil)

func NewMemoryRepository(pool PgxPool, tracer trace.Tracer) *MemoryRepository {
	return &MemoryRepository{pool: pool, tracer: tracer}
}

func (r *MemoryRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "memory-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createAgentMemoryTable)
	return err
}

func (r *MemoryRepository) Append(ctx context.Context, entry domain.MemoryEntry) error {
	_, span := r.tracer.Start(ctx, "memory-repo.append")
	defer span.End()

	if err := memory.ValidateEntry(entry); err != nil {
		return err
	}

	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO agent_memory (agent_type, memory_vector, metadata, created_at)
		 VALUES ($1, $2, $3, $4)`,
		string(entry.AgentType), pgvector.NewVector(entry.Embedding), metadata, entry.Timestamp,
	)
	return err
}

// Retrieve returns up to limit entries of the given agent type, ordered
// by ascending L2 distance to the query embedding.
func (r *MemoryRepository) Retrieve(ctx context.Context, agentType domain.AgentType, query []float32, limit int) ([]domain.MemoryEntry, error) {
	_, span := r.tracer.Start(ctx, "memory-repo.retrieve")
	defer span.End()

	if limit <= 0 {
		limit = 5
	}
	if len(query) != domain.EmbeddingDim {
		return nil, fmt.Errorf("query embedding length %d, want %d", len(query), domain.EmbeddingDim)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT agent_type, memory_vector, metadata, created_at
		 FROM agent_memory
		 WHERE agent_type = $1
		 ORDER BY memory_vector <-> $2
		 LIMIT $3`,
		string(agentType), pgvector.NewVector(query), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.MemoryEntry
	for rows.Next() {
		var (
			entry    domain.MemoryEntry
			agent    string
			vec      pgvector.Vector
			metadata []byte
		)
		if err := rows.Scan(&agent, &vec, &metadata, &entry.Timestamp); err != nil {
			return nil, err
		}
		entry.AgentType = domain.AgentType(agent)
		entry.Embedding = vec.Slice()
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *MemoryRepository) SimilaritySearch() bool { return true }
