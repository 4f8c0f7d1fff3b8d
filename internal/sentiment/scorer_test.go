package sentiment

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"penny-wise/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type stubNews struct {
	items []domain.NewsItem
	err   error
	calls int
}

func (s *stubNews) News(ctx context.Context, symbol string, from, to time.Time) ([]domain.NewsItem, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func newTestScorer(news NewsProvider, seed int64) *Scorer {
	return NewScorer(testTracer, news, rand.New(rand.NewSource(seed)), 30, 5, 2, 1)
}

func TestScoreItemPositive(t *testing.T) {
	t.Parallel()

	got := ScoreItem(domain.NewsItem{
		Headline: "Company reports strong growth",
		Summary:  "profit beat expectations",
	})
	if got.Label != domain.SentimentPositive {
		t.Fatalf("expected positive label, got %s", got.Label)
	}
	// strong, growth, profit, beat = 4 hits, capped at 0.8
	if got.Score != 0.8 {
		t.Fatalf("expected capped score 0.8, got %f", got.Score)
	}
}

func TestScoreItemNegative(t *testing.T) {
	t.Parallel()

	got := ScoreItem(domain.NewsItem{
		Headline: "Shares drop on earnings miss",
		Summary:  "",
	})
	if got.Label != domain.SentimentNegative {
		t.Fatalf("expected negative label, got %s", got.Label)
	}
	if got.Score != 0.7 {
		t.Fatalf("expected score 0.7 for two hits, got %f", got.Score)
	}
}

func TestScoreItemNeutral(t *testing.T) {
	t.Parallel()

	got := ScoreItem(domain.NewsItem{Headline: "Quarterly report published"})
	if got.Label != domain.SentimentNeutral || got.Score != 0.5 {
		t.Fatalf("expected neutral 0.5, got %s %f", got.Label, got.Score)
	}
}

func TestAggregateDeterminism(t *testing.T) {
	t.Parallel()

	// Two items, each with exactly 2 more positive hits than negative:
	// per-item score 0.5 + 0.1*2 = 0.7, aggregate mean = 0.7.
	items := []domain.NewsItem{
		{Headline: "growth and profit this quarter"},
		{Headline: "gain after analysts rise targets"},
	}
	scores := make([]domain.SentimentScore, 0, len(items))
	for _, item := range items {
		scores = append(scores, ScoreItem(item))
	}

	got := Aggregate(scores)
	if got.Label != domain.SentimentPositive {
		t.Fatalf("expected positive aggregate, got %s", got.Label)
	}
	if got.Score != 0.7 {
		t.Fatalf("expected aggregate score 0.7, got %f", got.Score)
	}
}

func TestAggregatePositiveWinsTies(t *testing.T) {
	t.Parallel()

	got := Aggregate([]domain.SentimentScore{
		{Label: domain.SentimentPositive, Score: 0.6},
		{Label: domain.SentimentNegative, Score: 0.8},
	})
	if got.Label != domain.SentimentPositive || got.Score != 0.6 {
		t.Fatalf("expected positive 0.6 on tie, got %s %f", got.Label, got.Score)
	}
}

func TestAggregateAllNeutral(t *testing.T) {
	t.Parallel()

	got := Aggregate([]domain.SentimentScore{
		{Label: domain.SentimentNeutral, Score: 0.5},
		{Label: domain.SentimentNeutral, Score: 0.5},
	})
	if got.Label != domain.SentimentNeutral || got.Score != 0.5 {
		t.Fatalf("expected neutral 0.5, got %s %f", got.Label, got.Score)
	}
}

func TestScoreAnalyzesFirstTwoOfFetched(t *testing.T) {
	t.Parallel()

	news := &stubNews{items: []domain.NewsItem{
		{Headline: "strong growth ahead"},
		{Headline: "profit gain reported"},
		{Headline: "bearish decline and loss everywhere"},
		{Headline: "crash concern"},
	}}
	s := newTestScorer(news, 1)

	got := s.Score(context.Background(), "AAPL")
	if got.Label != domain.SentimentPositive {
		t.Fatalf("trailing negative items must be ignored, got %s", got.Label)
	}
	if got.Basis != domain.BasisNews {
		t.Fatalf("expected news basis, got %s", got.Basis)
	}
}

func TestScoreProviderErrorFallsBack(t *testing.T) {
	t.Parallel()

	s := newTestScorer(&stubNews{err: errors.New("feed down")}, 42)

	got := s.Score(context.Background(), "AAPL")
	if got.Basis != domain.BasisFallback {
		t.Fatalf("expected fallback basis, got %s", got.Basis)
	}
	if !got.Label.IsValid() {
		t.Fatalf("fallback label must be valid, got %s", got.Label)
	}
	if got.Score < 0.3 || got.Score > 0.8 {
		t.Fatalf("fallback score out of range: %f", got.Score)
	}
}

func TestScoreFallbackIsSeedDeterministic(t *testing.T) {
	t.Parallel()

	a := newTestScorer(&stubNews{}, 7).Score(context.Background(), "AAPL")
	b := newTestScorer(&stubNews{}, 7).Score(context.Background(), "AAPL")
	if a != b {
		t.Fatalf("same seed must give same fallback: %+v vs %+v", a, b)
	}
}
