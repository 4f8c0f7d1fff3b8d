package domain

import "time"

type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
	ActionHold TradeAction = "hold"
)

func (a TradeAction) IsValid() bool {
	return a == ActionBuy || a == ActionSell || a == ActionHold
}

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

func (l SentimentLabel) IsValid() bool {
	return l == SentimentPositive || l == SentimentNegative || l == SentimentNeutral
}

// SentimentBasis records where a sentiment score came from, so a randomized
// stand-in is never mistaken for an analytically derived one.
type SentimentBasis string

const (
	BasisNews     SentimentBasis = "news"
	BasisFallback SentimentBasis = "fallback"
)

type SentimentScore struct {
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"`
	Basis SentimentBasis `json:"basis"`
}

// NewSentimentScore clamps score into [0,1] at construction.
func NewSentimentScore(label SentimentLabel, score float64, basis SentimentBasis) SentimentScore {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return SentimentScore{Label: label, Score: score, Basis: basis}
}

type NewsItem struct {
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	PublishedAt time.Time `json:"published_at"`
}

type Indicators struct {
	SMAShort     float64 `json:"sma_short"`
	SMALong      float64 `json:"sma_long"`
	RSI          float64 `json:"rsi"`
	CurrentPrice float64 `json:"current_price"`
	Volume       float64 `json:"volume"`
}

type Strategy struct {
	Action   TradeAction `json:"action"`
	Quantity int         `json:"quantity"`
	Reason   string      `json:"reason"`
}

type RiskDecision struct {
	Approved bool     `json:"approved"`
	Adjusted Strategy `json:"adjusted_strategy"`
	Reason   string   `json:"reason"`
}

type TradeRecord struct {
	Symbol    string      `json:"symbol"`
	Timestamp time.Time   `json:"timestamp"`
	Action    TradeAction `json:"action"`
	Price     float64     `json:"price"`
	Quantity  int         `json:"quantity"`
	Reason    string      `json:"reason"`
}

// Portfolio maps symbol to held quantity.
type Portfolio map[string]int
