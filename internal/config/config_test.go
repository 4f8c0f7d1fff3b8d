package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SYMBOL", "PORTFOLIO", "CAPITAL", "NEWS_LOOKBACK_DAYS",
		"NEWS_FETCH_LIMIT", "NEWS_ANALYZE_LIMIT", "EXPOSURE_LIMIT",
		"ASSUMED_SHARE_PRICE", "PROVIDER_TIMEOUT_SECS", "RUN_INTERVAL_SECS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Symbol != "AAPL" {
		t.Fatalf("expected default symbol AAPL, got %s", cfg.Symbol)
	}
	if cfg.Capital != 100_000 {
		t.Fatalf("expected default capital 100000, got %f", cfg.Capital)
	}
	if cfg.Portfolio["AAPL"] != 100 || cfg.Portfolio["GOOGL"] != 50 {
		t.Fatalf("unexpected default portfolio: %v", cfg.Portfolio)
	}
	if cfg.NewsLookbackDays != 30 || cfg.NewsFetchLimit != 5 || cfg.NewsAnalyzeLimit != 2 {
		t.Fatalf("unexpected news defaults: %d %d %d",
			cfg.NewsLookbackDays, cfg.NewsFetchLimit, cfg.NewsAnalyzeLimit)
	}
	if cfg.ExposureLimit != 0.10 {
		t.Fatalf("expected exposure limit 0.10, got %f", cfg.ExposureLimit)
	}
	if cfg.AssumedSharePrice != 200 {
		t.Fatalf("expected assumed share price 200, got %f", cfg.AssumedSharePrice)
	}
	if cfg.HighVolumeThreshold != 500_000 {
		t.Fatalf("expected high volume threshold 500000, got %f", cfg.HighVolumeThreshold)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SYMBOL", "msft")
	t.Setenv("CAPITAL", "250000")
	t.Setenv("EXPOSURE_LIMIT", "0.25")
	t.Setenv("ASSUMED_SHARE_PRICE", "50")
	t.Setenv("NEWS_LOOKBACK_DAYS", "7")

	cfg := Load()

	if cfg.Symbol != "MSFT" {
		t.Fatalf("expected symbol MSFT, got %s", cfg.Symbol)
	}
	if cfg.Capital != 250_000 {
		t.Fatalf("expected capital 250000, got %f", cfg.Capital)
	}
	if cfg.ExposureLimit != 0.25 {
		t.Fatalf("expected exposure limit 0.25, got %f", cfg.ExposureLimit)
	}
	if cfg.AssumedSharePrice != 50 {
		t.Fatalf("expected assumed share price 50, got %f", cfg.AssumedSharePrice)
	}
	if cfg.NewsLookbackDays != 7 {
		t.Fatalf("expected lookback 7, got %d", cfg.NewsLookbackDays)
	}
}

func TestLoadIgnoresInvalidOverrides(t *testing.T) {
	t.Setenv("CAPITAL", "not-a-number")
	t.Setenv("EXPOSURE_LIMIT", "1.5")

	cfg := Load()

	if cfg.Capital != 100_000 {
		t.Fatalf("expected default capital on bad input, got %f", cfg.Capital)
	}
	if cfg.ExposureLimit != 0.10 {
		t.Fatalf("expected default exposure on out-of-range input, got %f", cfg.ExposureLimit)
	}
}

func TestParsePortfolio(t *testing.T) {
	t.Parallel()

	got := parsePortfolio("aapl:100, GOOGL:50 ,bogus,NEG:-1")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %v", got)
	}
	if got["AAPL"] != 100 || got["GOOGL"] != 50 {
		t.Fatalf("unexpected portfolio: %v", got)
	}

	if p := parsePortfolio(""); p != nil {
		t.Fatalf("expected nil portfolio for empty input, got %v", p)
	}
}
