package provider

import (
	"context"
	"errors"
	"testing"

	finance "github.com/piquette/finance-go"
)

func TestYahooQuote(t *testing.T) {
	orig := yahooGetQuote
	defer func() { yahooGetQuote = orig }()

	yahooGetQuote = func(symbol string) (*finance.Quote, error) {
		return &finance.Quote{
			RegularMarketOpen:    150,
			RegularMarketDayHigh: 155,
			RegularMarketDayLow:  148,
			RegularMarketPrice:   152.5,
			RegularMarketVolume:  2_000_000,
		}, nil
	}

	p := NewYahooProvider(testTracer)
	q, err := p.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Close != 152.5 || q.Volume != 2_000_000 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestYahooQuoteError(t *testing.T) {
	orig := yahooGetQuote
	defer func() { yahooGetQuote = orig }()

	yahooGetQuote = func(symbol string) (*finance.Quote, error) {
		return nil, errors.New("upstream down")
	}

	p := NewYahooProvider(testTracer)
	if _, err := p.Quote(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error from upstream failure")
	}
}
