package provider

import (
	"context"
	"fmt"
	"time"

	"penny-wise/internal/domain"

	"github.com/piquette/finance-go/quote"
	"go.opentelemetry.io/otel/trace"
)

// yahooGetQuote is swapped out in tests; the finance-go API is package level.
var yahooGetQuote = quote.Get

// YahooProvider fetches quotes from Yahoo Finance. It is the secondary
// feed behind Finnhub.
type YahooProvider struct {
	tracer trace.Tracer
}

func NewYahooProvider(tracer trace.Tracer) *YahooProvider {
	return &YahooProvider{tracer: tracer}
}

// Quote fetches the latest regular-market quote for symbol. The
// finance-go client does not accept a context, so cancellation only
// bounds the caller's wait, not the underlying request.
func (p *YahooProvider) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	_, span := p.tracer.Start(ctx, "yahoo.quote")
	defer span.End()

	type result struct {
		q   domain.Quote
		err error
	}
	done := make(chan result, 1)

	go func() {
		q, err := yahooGetQuote(symbol)
		if err != nil {
			done <- result{err: fmt.Errorf("fetch yahoo quote for %s: %w", symbol, err)}
			return
		}
		if q == nil {
			done <- result{err: fmt.Errorf("no yahoo quote for %s", symbol)}
			return
		}
		done <- result{q: domain.Quote{
			Symbol:    symbol,
			Open:      q.RegularMarketOpen,
			High:      q.RegularMarketDayHigh,
			Low:       q.RegularMarketDayLow,
			Close:     q.RegularMarketPrice,
			Volume:    float64(q.RegularMarketVolume),
			Timestamp: time.Now(),
		}}
	}()

	select {
	case <-ctx.Done():
		return domain.Quote{}, ctx.Err()
	case r := <-done:
		return r.q, r.err
	}
}
