package strategy

import (
	"fmt"

	"penny-wise/internal/domain"
)

// Momentum is a coarse classification of price-and-volume behavior.
type Momentum string

const (
	MomentumStrong   Momentum = "strong"
	MomentumModerate Momentum = "moderate"
	MomentumWeak     Momentum = "weak"
)

// Bands holds the numeric thresholds of the decision table.
type Bands struct {
	HighPrice       float64 // above this, momentum can be strong
	MidPrice        float64 // above this, momentum is at least moderate
	HighVolume      float64 // high-volume threshold
	ValuePrice      float64 // below this, high volume reads as a value entry
	TakeProfitPrice float64 // above this, neutral sentiment takes profits
}

// DefaultBands mirrors the configuration defaults.
func DefaultBands() Bands {
	return Bands{
		HighPrice:       200,
		MidPrice:        100,
		HighVolume:      500_000,
		ValuePrice:      150,
		TakeProfitPrice: 400,
	}
}

// Engine maps (sentiment, indicators) to a Strategy through a fixed
// decision table. Generate is pure and deterministic and never fails:
// malformed input routes to a reduced sentiment-only table.
type Engine struct {
	bands Bands
}

func NewEngine(bands Bands) *Engine {
	if bands == (Bands{}) {
		bands = DefaultBands()
	}
	return &Engine{bands: bands}
}

// Generate evaluates the decision table top-down, first match wins.
func (e *Engine) Generate(sent domain.SentimentScore, ind domain.Indicators) domain.Strategy {
	if !sent.Label.IsValid() || sent.Score < 0 || sent.Score > 1 || ind.CurrentPrice <= 0 {
		return e.basic(sent)
	}

	price := ind.CurrentPrice
	highVolume := ind.Volume > e.bands.HighVolume
	momentum := e.momentum(price, ind.Volume)

	switch {
	case sent.Label == domain.SentimentPositive && sent.Score > 0.5:
		switch momentum {
		case MomentumStrong:
			return domain.Strategy{
				Action:   domain.ActionBuy,
				Quantity: 15,
				Reason:   fmt.Sprintf("Strong positive sentiment (%.2f) + strong momentum", sent.Score),
			}
		case MomentumModerate:
			return domain.Strategy{
				Action:   domain.ActionBuy,
				Quantity: 10,
				Reason:   fmt.Sprintf("Positive sentiment (%.2f) + moderate momentum", sent.Score),
			}
		default:
			return domain.Strategy{
				Action:   domain.ActionBuy,
				Quantity: 5,
				Reason:   fmt.Sprintf("Positive sentiment (%.2f) but weak momentum", sent.Score),
			}
		}

	case sent.Label == domain.SentimentNegative && sent.Score > 0.5:
		switch momentum {
		case MomentumStrong:
			return domain.Strategy{
				Action:   domain.ActionSell,
				Quantity: 8,
				Reason:   fmt.Sprintf("Strong negative sentiment (%.2f) + strong momentum", sent.Score),
			}
		case MomentumModerate:
			return domain.Strategy{
				Action:   domain.ActionSell,
				Quantity: 5,
				Reason:   fmt.Sprintf("Negative sentiment (%.2f) + moderate momentum", sent.Score),
			}
		default:
			return domain.Strategy{
				Action:   domain.ActionHold,
				Quantity: 0,
				Reason:   fmt.Sprintf("Negative sentiment (%.2f) but weak momentum - wait", sent.Score),
			}
		}

	case momentum == MomentumStrong && highVolume:
		return domain.Strategy{
			Action:   domain.ActionBuy,
			Quantity: 8,
			Reason:   "Strong technical momentum despite neutral sentiment",
		}

	case price < e.bands.ValuePrice && highVolume:
		return domain.Strategy{
			Action:   domain.ActionBuy,
			Quantity: 12,
			Reason:   "Potential value opportunity with high volume",
		}

	case price > e.bands.TakeProfitPrice:
		return domain.Strategy{
			Action:   domain.ActionSell,
			Quantity: 3,
			Reason:   "Taking profits at high price levels",
		}

	default:
		return domain.Strategy{
			Action:   domain.ActionHold,
			Quantity: 0,
			Reason:   "Neutral conditions - monitoring market",
		}
	}
}

func (e *Engine) momentum(price, volume float64) Momentum {
	switch {
	case price > e.bands.HighPrice && volume > e.bands.HighVolume:
		return MomentumStrong
	case price > e.bands.MidPrice:
		return MomentumModerate
	default:
		return MomentumWeak
	}
}

// basic is the reduced fallback table used when inputs are malformed.
func (e *Engine) basic(sent domain.SentimentScore) domain.Strategy {
	switch {
	case sent.Label == domain.SentimentPositive && sent.Score > 0.4:
		return domain.Strategy{Action: domain.ActionBuy, Quantity: 8, Reason: "Basic positive sentiment strategy"}
	case sent.Label == domain.SentimentNegative && sent.Score > 0.4:
		return domain.Strategy{Action: domain.ActionSell, Quantity: 4, Reason: "Basic negative sentiment strategy"}
	default:
		return domain.Strategy{Action: domain.ActionHold, Quantity: 0, Reason: "Basic neutral strategy"}
	}
}
