package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"penny-wise/internal/domain"
)

func testEntry(agentType domain.AgentType, first float32) domain.MemoryEntry {
	embedding := make([]float32, domain.EmbeddingDim)
	embedding[0] = first
	return domain.MemoryEntry{
		AgentType: agentType,
		Embedding: embedding,
		Metadata:  map[string]string{"symbol": "AAPL"},
		Timestamp: time.Now(),
	}
}

func TestInMemoryStoreInsertionOrder(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := store.Append(ctx, testEntry(domain.AgentSentiment, float32(i))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := store.Append(ctx, testEntry(domain.AgentStrategy, 9)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Query embedding closest to the LAST entry: insertion order must
	// still win, because this backend does no similarity ranking.
	query := make([]float32, domain.EmbeddingDim)
	query[0] = 3

	got, err := store.Retrieve(ctx, domain.AgentSentiment, query, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Embedding[0] != 0 || got[1].Embedding[0] != 1 {
		t.Fatalf("expected insertion order, got %f then %f", got[0].Embedding[0], got[1].Embedding[0])
	}
	if store.SimilaritySearch() {
		t.Fatal("in-memory backend must report no similarity support")
	}
}

func TestInMemoryStoreFiltersAgentType(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore()
	ctx := context.Background()

	_ = store.Append(ctx, testEntry(domain.AgentMarketData, 1))
	_ = store.Append(ctx, testEntry(domain.AgentRisk, 2))

	got, err := store.Retrieve(ctx, domain.AgentRisk, nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].AgentType != domain.AgentRisk {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestInMemoryStoreRejectsBadEntries(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore()
	ctx := context.Background()

	err := store.Append(ctx, domain.MemoryEntry{
		AgentType: domain.AgentRisk,
		Embedding: make([]float32, 10),
	})
	if err == nil {
		t.Fatal("expected error for wrong embedding length")
	}

	err = store.Append(ctx, testEntry("oracle", 0))
	if err == nil {
		t.Fatal("expected error for unknown agent type")
	}
}

func TestInMemoryStoreEntriesAreImmutable(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore()
	ctx := context.Background()

	entry := testEntry(domain.AgentSentiment, 5)
	if err := store.Append(ctx, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry.Embedding[0] = 99
	entry.Metadata["symbol"] = "MSFT"

	got, _ := store.Retrieve(ctx, domain.AgentSentiment, nil, 1)
	if got[0].Embedding[0] != 5 {
		t.Fatalf("stored embedding mutated: %f", got[0].Embedding[0])
	}
	if got[0].Metadata["symbol"] != "AAPL" {
		t.Fatalf("stored metadata mutated: %v", got[0].Metadata)
	}
}

func TestHashEmbedderShape(t *testing.T) {
	t.Parallel()

	embedder := NewHashEmbedder()
	vec, err := embedder.Embed(context.Background(), "Current price: $152.50, Volume: 1,000,000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != domain.EmbeddingDim {
		t.Fatalf("expected %d dims, got %d", domain.EmbeddingDim, len(vec))
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-5 {
		t.Fatalf("expected unit norm, got %f", math.Sqrt(norm))
	}
}

func TestHashEmbedderDeterministic(t *testing.T) {
	t.Parallel()

	embedder := NewHashEmbedder()
	a, _ := embedder.Embed(context.Background(), "positive 0.65 AAPL")
	b, _ := embedder.Embed(context.Background(), "positive 0.65 AAPL")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at dim %d", i)
		}
	}

	c, _ := embedder.Embed(context.Background(), "negative 0.30 MSFT")
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different texts should not produce identical embeddings")
	}
}

func TestHashEmbedderEmptyText(t *testing.T) {
	t.Parallel()

	embedder := NewHashEmbedder()
	vec, err := embedder.Embed(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range vec {
		if v != 0 {
			t.Fatal("empty text should embed to the zero vector")
		}
	}
}
