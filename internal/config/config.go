package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"penny-wise/internal/domain"
)

type Config struct {
	Symbol    string
	Portfolio domain.Portfolio
	Capital   float64

	DatabaseURL string
	RedisURL    string

	FinnhubAPIKey string

	OpenAIAPIKey string
	OpenAIModel  string

	TelegramBotToken string
	TelegramChatID   int64

	NewsLookbackDays    int
	NewsFetchLimit      int
	NewsAnalyzeLimit    int
	ProviderTimeoutSecs int

	ExposureLimit     float64
	AssumedSharePrice float64

	// Decision-table bands, lifted out of the strategy engine so the
	// table stays testable against varied parameters.
	MomentumHighPrice   float64
	MomentumMidPrice    float64
	HighVolumeThreshold float64
	ValuePriceThreshold float64
	TakeProfitPrice     float64

	RunIntervalSecs int

	APIKey string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		FinnhubAPIKey:    os.Getenv("FINNHUB_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		APIKey:           os.Getenv("API_KEY"),
	}

	cfg.Symbol = strings.ToUpper(strings.TrimSpace(os.Getenv("SYMBOL")))
	if cfg.Symbol == "" {
		cfg.Symbol = "AAPL"
	}

	cfg.Portfolio = parsePortfolio(os.Getenv("PORTFOLIO"))
	if len(cfg.Portfolio) == 0 {
		cfg.Portfolio = domain.Portfolio{"AAPL": 100, "GOOGL": 50}
	}

	cfg.Capital = 100_000
	if v := strings.TrimSpace(os.Getenv("CAPITAL")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.Capital = n
		}
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, falling back to in-memory storage")
	}
	if cfg.FinnhubAPIKey == "" {
		log.Println("Warning: FINNHUB_API_KEY not set, primary market feed will fail over")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, risk advisor disabled")
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = n
		}
	}

	cfg.NewsLookbackDays = 30
	if v := strings.TrimSpace(os.Getenv("NEWS_LOOKBACK_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NewsLookbackDays = n
		}
	}

	cfg.NewsFetchLimit = 5
	if v := strings.TrimSpace(os.Getenv("NEWS_FETCH_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NewsFetchLimit = n
		}
	}

	cfg.NewsAnalyzeLimit = 2
	if v := strings.TrimSpace(os.Getenv("NEWS_ANALYZE_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NewsAnalyzeLimit = n
		}
	}

	cfg.ProviderTimeoutSecs = 10
	if v := strings.TrimSpace(os.Getenv("PROVIDER_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ProviderTimeoutSecs = n
		}
	}

	cfg.ExposureLimit = 0.10
	if v := strings.TrimSpace(os.Getenv("EXPOSURE_LIMIT")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 && n <= 1 {
			cfg.ExposureLimit = n
		}
	}

	cfg.AssumedSharePrice = 200
	if v := strings.TrimSpace(os.Getenv("ASSUMED_SHARE_PRICE")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.AssumedSharePrice = n
		}
	}

	cfg.MomentumHighPrice = 200
	cfg.MomentumMidPrice = 100
	cfg.HighVolumeThreshold = 500_000
	cfg.ValuePriceThreshold = 150
	cfg.TakeProfitPrice = 400

	cfg.RunIntervalSecs = 0
	if v := strings.TrimSpace(os.Getenv("RUN_INTERVAL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RunIntervalSecs = n
		}
	}

	return cfg
}

// parsePortfolio parses "AAPL:100,GOOGL:50" into a Portfolio.
// Malformed entries are skipped with a warning.
func parsePortfolio(raw string) domain.Portfolio {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	portfolio := domain.Portfolio{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		symbol, qtyStr, ok := strings.Cut(part, ":")
		if !ok {
			log.Printf("Warning: skipping malformed portfolio entry %q", part)
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil || qty < 0 {
			log.Printf("Warning: skipping malformed portfolio entry %q", part)
			continue
		}
		portfolio[strings.ToUpper(strings.TrimSpace(symbol))] = qty
	}
	return portfolio
}
