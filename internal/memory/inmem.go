package memory

import (
	"context"
	"sync"

	"penny-wise/internal/domain"
)

// InMemoryStore is the degraded backend used when Postgres is
// unavailable. Appends are serialized; Retrieve filters by agent type
// in insertion order with no similarity ranking.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []domain.MemoryEntry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(ctx context.Context, entry domain.MemoryEntry) error {
	if err := ValidateEntry(entry); err != nil {
		return err
	}

	// Copy so the stored entry stays immutable even if the caller
	// reuses the embedding slice.
	stored := entry
	stored.Embedding = append([]float32(nil), entry.Embedding...)
	if entry.Metadata != nil {
		stored.Metadata = make(map[string]string, len(entry.Metadata))
		for k, v := range entry.Metadata {
			stored.Metadata[k] = v
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, stored)
	return nil
}

func (s *InMemoryStore) Retrieve(ctx context.Context, agentType domain.AgentType, query []float32, limit int) ([]domain.MemoryEntry, error) {
	if limit <= 0 {
		limit = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.MemoryEntry
	for _, entry := range s.entries {
		if entry.AgentType != agentType {
			continue
		}
		out = append(out, entry)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// SimilaritySearch reports the reduced retrieval contract.
func (s *InMemoryStore) SimilaritySearch() bool { return false }

// Len reports the number of stored entries.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
