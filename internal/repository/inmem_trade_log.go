package repository

import (
	"context"
	"log"
	"sync"

	"penny-wise/internal/domain"
)

// InMemoryTradeLog is the degraded trade log used when Postgres is
// unavailable. Records are kept for the life of the process.
type InMemoryTradeLog struct {
	mu      sync.RWMutex
	records []domain.TradeRecord
}

func NewInMemoryTradeLog() *InMemoryTradeLog {
	return &InMemoryTradeLog{}
}

func (l *InMemoryTradeLog) LogTrade(ctx context.Context, record domain.TradeRecord) error {
	l.mu.Lock()
	l.records = append(l.records, record)
	l.mu.Unlock()

	log.Printf("Trade logged: %+v", record)
	return nil
}

// RecentTrades returns the most recent records, newest first.
func (l *InMemoryTradeLog) RecentTrades(ctx context.Context, limit int) ([]domain.TradeRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.TradeRecord, 0, limit)
	for i := len(l.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.records[i])
	}
	return out, nil
}
