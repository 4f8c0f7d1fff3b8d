package memory

import (
	"context"
	"fmt"

	"penny-wise/internal/domain"
)

// Store is the append-only memory log every pipeline stage writes to.
//
// Retrieve returns up to limit entries for an agent type. Backends
// diverge deliberately: the persistent backend ranks by ascending
// distance to the query embedding, while the in-memory backend returns
// insertion order and ignores the query. SimilaritySearch reports which
// contract a backend honors, so callers are never surprised by the
// weaker one.
type Store interface {
	Append(ctx context.Context, entry domain.MemoryEntry) error
	Retrieve(ctx context.Context, agentType domain.AgentType, query []float32, limit int) ([]domain.MemoryEntry, error)
	SimilaritySearch() bool
}

// ValidateEntry enforces the append invariants shared by both backends.
func ValidateEntry(entry domain.MemoryEntry) error {
	if !entry.AgentType.IsValid() {
		return fmt.Errorf("invalid agent type %q", entry.AgentType)
	}
	if len(entry.Embedding) != domain.EmbeddingDim {
		return fmt.Errorf("embedding length %d, want %d", len(entry.Embedding), domain.EmbeddingDim)
	}
	return nil
}
