package repository

import (
	"context"
	"testing"
	"time"

	"penny-wise/internal/domain"
)

func TestInMemoryTradeLog(t *testing.T) {
	t.Parallel()

	tradeLog := NewInMemoryTradeLog()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := tradeLog.LogTrade(ctx, domain.TradeRecord{
			Symbol:    "AAPL",
			Timestamp: time.Now(),
			Action:    domain.ActionBuy,
			Price:     100 + float64(i),
			Quantity:  10,
			Reason:    "test",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := tradeLog.RecentTrades(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Price != 102 || got[1].Price != 101 {
		t.Fatalf("expected newest first, got %f then %f", got[0].Price, got[1].Price)
	}
}

func TestInMemoryTradeLogEmpty(t *testing.T) {
	t.Parallel()

	tradeLog := NewInMemoryTradeLog()
	got, err := tradeLog.RecentTrades(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}
