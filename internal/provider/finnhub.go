package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"penny-wise/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/trace"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubProvider fetches quotes and company news from the Finnhub API.
// It serves as both the primary market feed and the news feed.
type FinnhubProvider struct {
	client  *resty.Client
	apiKey  string
	tracer  trace.Tracer
	limiter *Limiter
}

// NewFinnhubProvider creates a provider with built-in rate limiting.
// The free tier allows 60 requests per minute.
func NewFinnhubProvider(tracer trace.Tracer, apiKey string) *FinnhubProvider {
	client := resty.New()
	client.SetBaseURL(finnhubBaseURL)
	client.SetTimeout(30 * time.Second)

	return &FinnhubProvider{
		client:  client,
		apiKey:  apiKey,
		tracer:  tracer,
		limiter: NewLimiter(60, time.Second),
	}
}

// finnhubQuote is the /quote response shape.
type finnhubQuote struct {
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Current   float64 `json:"c"`
	PrevClose float64 `json:"pc"`
	Timestamp int64   `json:"t"`
}

// finnhubNews is the /company-news response item shape.
type finnhubNews struct {
	Category string `json:"category"`
	DateTime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
}

// Quote fetches the current quote for symbol. Finnhub's quote endpoint
// carries no volume, so a default is substituted.
func (p *FinnhubProvider) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	_, span := p.tracer.Start(ctx, "finnhub.quote")
	defer span.End()

	if p.apiKey == "" {
		return domain.Quote{}, fmt.Errorf("finnhub api key not configured")
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return domain.Quote{}, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"token":  p.apiKey,
		}).
		Get("/quote")
	if err != nil {
		return domain.Quote{}, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return domain.Quote{}, fmt.Errorf("finnhub API error %d: %s", resp.StatusCode(), resp.String())
	}

	var raw finnhubQuote
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return domain.Quote{}, fmt.Errorf("parse quote for %s: %w", symbol, err)
	}

	ts := time.Now()
	if raw.Timestamp > 0 {
		ts = time.Unix(raw.Timestamp, 0)
	}

	return domain.Quote{
		Symbol: symbol,
		Open:   raw.Open,
		High:   raw.High,
		Low:    raw.Low,
		Close:  raw.Current,
		// The quote endpoint has no volume field.
		Volume:    1_000_000,
		Timestamp: ts,
	}, nil
}

// News fetches company news for symbol between from and to.
func (p *FinnhubProvider) News(ctx context.Context, symbol string, from, to time.Time) ([]domain.NewsItem, error) {
	_, span := p.tracer.Start(ctx, "finnhub.company-news")
	defer span.End()

	if p.apiKey == "" {
		return nil, fmt.Errorf("finnhub api key not configured")
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"from":   from.Format("2006-01-02"),
			"to":     to.Format("2006-01-02"),
			"token":  p.apiKey,
		}).
		Get("/company-news")
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("finnhub API error %d: %s", resp.StatusCode(), resp.String())
	}

	var raw []finnhubNews
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("parse news for %s: %w", symbol, err)
	}

	items := make([]domain.NewsItem, 0, len(raw))
	for _, n := range raw {
		if n.Headline == "" {
			continue
		}
		items = append(items, domain.NewsItem{
			Headline:    n.Headline,
			Summary:     n.Summary,
			PublishedAt: time.Unix(n.DateTime, 0),
		})
	}
	return items, nil
}
