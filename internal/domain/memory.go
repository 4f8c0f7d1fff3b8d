package domain

import "time"

// AgentType tags which pipeline stage produced a memory entry.
type AgentType string

const (
	AgentMarketData AgentType = "market_data"
	AgentSentiment  AgentType = "sentiment"
	AgentStrategy   AgentType = "strategy"
	AgentRisk       AgentType = "risk"
)

func (a AgentType) IsValid() bool {
	switch a {
	case AgentMarketData, AgentSentiment, AgentStrategy, AgentRisk:
		return true
	}
	return false
}

// EmbeddingDim is the fixed embedding length the persistent store indexes.
const EmbeddingDim = 384

// MemoryEntry is an embedded stage output. Entries are append-only and
// immutable once stored.
type MemoryEntry struct {
	AgentType AgentType         `json:"agent_type"`
	Embedding []float32         `json:"embedding"`
	Metadata  map[string]string `json:"metadata"`
	Timestamp time.Time         `json:"timestamp"`
}
