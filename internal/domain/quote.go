package domain

import "time"

// Quote represents a single OHLCV data point for a symbol.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`

	// Synthetic marks the fixed stand-in quote returned when every live
	// feed has failed. Downstream stages still consume it, but consumers
	// that care (caching, reporting) can tell it apart from real data.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Valid reports whether the quote is usable by downstream stages.
func (q Quote) Valid() bool {
	return q.Close >= 0 && q.Volume >= 0
}

// SyntheticQuote is the documented demo stand-in used when all live
// market data sources are exhausted.
func SyntheticQuote(symbol string, now time.Time) Quote {
	return Quote{
		Symbol:    symbol,
		Open:      150.0,
		High:      155.0,
		Low:       148.0,
		Close:     152.5,
		Volume:    1_000_000,
		Timestamp: now,
		Synthetic: true,
	}
}
