package sentiment

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"time"

	"penny-wise/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// Fixed lexicons for the keyword scorer. Matching is case-insensitive
// substring match over headline + summary.
var (
	positiveTerms = []string{
		"growth", "profit", "gain", "rise", "up", "strong",
		"beat", "exceed", "positive", "bullish",
	}
	negativeTerms = []string{
		"loss", "drop", "fall", "down", "weak", "miss",
		"decline", "negative", "bearish", "concern",
	}
)

// NewsProvider is the news feed collaborator. It may fail or return
// nothing; the scorer owns the fallback policy.
type NewsProvider interface {
	News(ctx context.Context, symbol string, from, to time.Time) ([]domain.NewsItem, error)
}

// Scorer produces a SentimentScore for a symbol. Score never fails:
// provider errors degrade to zero items, and zero items degrade to a
// randomized placeholder tagged with BasisFallback.
type Scorer struct {
	tracer       trace.Tracer
	news         NewsProvider
	rng          *rand.Rand
	lookbackDays int
	fetchLimit   int
	analyzeLimit int
	callTimeout  time.Duration
	now          func() time.Time
}

func NewScorer(
	tracer trace.Tracer,
	news NewsProvider,
	rng *rand.Rand,
	lookbackDays, fetchLimit, analyzeLimit, callTimeoutSecs int,
) *Scorer {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	if fetchLimit <= 0 {
		fetchLimit = 5
	}
	if analyzeLimit <= 0 {
		analyzeLimit = 2
	}
	if callTimeoutSecs <= 0 {
		callTimeoutSecs = 10
	}
	return &Scorer{
		tracer:       tracer,
		news:         news,
		rng:          rng,
		lookbackDays: lookbackDays,
		fetchLimit:   fetchLimit,
		analyzeLimit: analyzeLimit,
		callTimeout:  time.Duration(callTimeoutSecs) * time.Second,
		now:          time.Now,
	}
}

// Score fetches recent news and aggregates per-item keyword sentiment.
func (s *Scorer) Score(ctx context.Context, symbol string) domain.SentimentScore {
	ctx, span := s.tracer.Start(ctx, "sentiment.score")
	defer span.End()

	items := s.fetchNews(ctx, symbol)
	if len(items) == 0 {
		score := s.fallbackScore()
		log.Printf("no news found for %s, using simulated sentiment: %s %.2f",
			symbol, score.Label, score.Score)
		return score
	}

	if len(items) > s.analyzeLimit {
		items = items[:s.analyzeLimit]
	}

	scores := make([]domain.SentimentScore, 0, len(items))
	for _, item := range items {
		scores = append(scores, ScoreItem(item))
	}
	return Aggregate(scores)
}

func (s *Scorer) fetchNews(ctx context.Context, symbol string) []domain.NewsItem {
	if s.news == nil {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	to := s.now()
	from := to.AddDate(0, 0, -s.lookbackDays)
	items, err := s.news.News(callCtx, symbol, from, to)
	if err != nil {
		log.Printf("news fetch failed for %s: %v", symbol, err)
		return nil
	}
	if len(items) > s.fetchLimit {
		items = items[:s.fetchLimit]
	}
	return items
}

// fallbackScore is an explicit demo placeholder, not analytically derived.
func (s *Scorer) fallbackScore() domain.SentimentScore {
	labels := []domain.SentimentLabel{
		domain.SentimentPositive,
		domain.SentimentNegative,
		domain.SentimentNeutral,
	}
	label := labels[s.rng.Intn(len(labels))]
	score := 0.3 + s.rng.Float64()*0.5
	return domain.NewSentimentScore(label, score, domain.BasisFallback)
}

// ScoreItem scores one news item by counting lexicon terms present in
// the lowercased headline and summary.
func ScoreItem(item domain.NewsItem) domain.SentimentScore {
	text := strings.ToLower(item.Headline + " " + item.Summary)

	positive := countTerms(text, positiveTerms)
	negative := countTerms(text, negativeTerms)

	switch {
	case positive > negative:
		score := 0.5 + float64(positive)*0.1
		if score > 0.8 {
			score = 0.8
		}
		return domain.NewSentimentScore(domain.SentimentPositive, score, domain.BasisNews)
	case negative > positive:
		score := 0.5 + float64(negative)*0.1
		if score > 0.8 {
			score = 0.8
		}
		return domain.NewSentimentScore(domain.SentimentNegative, score, domain.BasisNews)
	default:
		return domain.NewSentimentScore(domain.SentimentNeutral, 0.5, domain.BasisNews)
	}
}

// Aggregate combines per-item scores. Positive wins ties against
// negative; anything else is neutral at 0.5.
func Aggregate(scores []domain.SentimentScore) domain.SentimentScore {
	var positives, negatives []float64
	for _, s := range scores {
		switch s.Label {
		case domain.SentimentPositive:
			positives = append(positives, s.Score)
		case domain.SentimentNegative:
			negatives = append(negatives, s.Score)
		}
	}

	switch {
	case len(positives) > 0 && len(positives) >= len(negatives):
		return domain.NewSentimentScore(domain.SentimentPositive, mean(positives), domain.BasisNews)
	case len(negatives) > 0 && len(negatives) > len(positives):
		return domain.NewSentimentScore(domain.SentimentNegative, mean(negatives), domain.BasisNews)
	default:
		return domain.NewSentimentScore(domain.SentimentNeutral, 0.5, domain.BasisNews)
	}
}

func countTerms(text string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			count++
		}
	}
	return count
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
