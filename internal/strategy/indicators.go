package strategy

import "penny-wise/internal/domain"

// ComputeIndicators derives simple indicators from a single-point quote.
// The moving averages and RSI are deliberate stand-ins for real
// multi-period indicators, which a single quote cannot support.
// A malformed quote falls back to fixed defaults; the function never fails.
func ComputeIndicators(quote domain.Quote) domain.Indicators {
	if quote.Close <= 0 {
		return domain.Indicators{
			SMAShort:     100,
			SMALong:      98,
			RSI:          50,
			CurrentPrice: 100,
			Volume:       1_000_000,
		}
	}
	return domain.Indicators{
		SMAShort:     quote.Close,
		SMALong:      quote.Close * 0.98,
		RSI:          50,
		CurrentPrice: quote.Close,
		Volume:       quote.Volume,
	}
}
