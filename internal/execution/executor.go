package execution

import (
	"context"
	"fmt"
	"log"
	"time"

	"penny-wise/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// TradeLog persists executed trades. Either Postgres-backed or in-memory.
type TradeLog interface {
	LogTrade(ctx context.Context, record domain.TradeRecord) error
}

// Executor applies an approved strategy: buys and sells become trade
// records, holds only produce a notification.
type Executor struct {
	tracer   trace.Tracer
	trades   TradeLog
	notifier Notifier
	now      func() time.Time
}

func NewExecutor(tracer trace.Tracer, trades TradeLog, notifier Notifier) *Executor {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Executor{
		tracer:   tracer,
		trades:   trades,
		notifier: notifier,
		now:      time.Now,
	}
}

// Execute returns the persisted record for buy/sell, nil for hold. A
// trade log failure is logged and reported, but the record is still
// returned so the caller can present what was decided.
func (e *Executor) Execute(ctx context.Context, symbol string, strategy domain.Strategy, price float64) (*domain.TradeRecord, error) {
	ctx, span := e.tracer.Start(ctx, "execution.execute")
	defer span.End()

	if strategy.Action != domain.ActionBuy && strategy.Action != domain.ActionSell {
		e.notify(ctx, fmt.Sprintf("HOLDING %s. Reason: %s", symbol, strategy.Reason))
		return nil, nil
	}

	record := domain.TradeRecord{
		Symbol:    symbol,
		Timestamp: e.now(),
		Action:    strategy.Action,
		Price:     price,
		Quantity:  strategy.Quantity,
		Reason:    strategy.Reason,
	}

	var err error
	if e.trades != nil {
		if err = e.trades.LogTrade(ctx, record); err != nil {
			log.Printf("failed to persist trade record: %v", err)
			err = fmt.Errorf("persist trade record: %w", err)
		}
	}

	e.notify(ctx, fmt.Sprintf("TRADE EXECUTED: %s %d shares of %s at $%.2f. Reason: %s",
		record.Action, record.Quantity, record.Symbol, record.Price, record.Reason))

	return &record, err
}

func (e *Executor) notify(ctx context.Context, message string) {
	if err := e.notifier.Notify(ctx, message); err != nil {
		log.Printf("notification failed: %v", err)
	}
}
