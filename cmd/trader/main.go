package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"penny-wise/internal/cache"
	"penny-wise/internal/config"
	"penny-wise/internal/db"
	"penny-wise/internal/execution"
	"penny-wise/internal/marketdata"
	"penny-wise/internal/memory"
	"penny-wise/internal/pipeline"
	"penny-wise/internal/provider"
	"penny-wise/internal/repository"
	"penny-wise/internal/risk"
	"penny-wise/internal/sentiment"
	"penny-wise/internal/strategy"
	"penny-wise/pkg/tracing"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc          = godotenv.Load
	loadConfigFunc       = config.Load
	initPostgresFunc     = db.InitPostgres
	initRedisFunc        = cache.InitRedis
	initTracerFunc       = tracing.InitTracer
	newPrimaryFeedFunc   = func(tracer trace.Tracer, apiKey string) marketdata.QuoteProvider { return provider.NewFinnhubProvider(tracer, apiKey) }
	newSecondaryFeedFunc = func(tracer trace.Tracer) marketdata.QuoteProvider { return provider.NewYahooProvider(tracer) }
	exitFunc             = os.Exit
	outputFunc           = func(format string, args ...any) { fmt.Printf(format, args...) }
)

func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initPostgresFunc(ctx, cfg.DatabaseURL)
	initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Printf("failed to initialize tracer: %v", err)
		exitFunc(1)
		return
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	var tradeLog execution.TradeLog
	var store memory.Store
	if db.Pool != nil {
		tradeRepo := repository.NewTradeRepository(db.Pool, tracer)
		memoryRepo := repository.NewMemoryRepository(db.Pool, tracer)
		if err := tradeRepo.RunMigrations(ctx); err != nil {
			log.Printf("failed to run trade log migrations: %v", err)
			exitFunc(1)
			return
		}
		if err := memoryRepo.RunMigrations(ctx); err != nil {
			log.Printf("failed to run agent memory migrations: %v", err)
			exitFunc(1)
			return
		}
		tradeLog = tradeRepo
		store = memoryRepo
	} else {
		tradeLog = repository.NewInMemoryTradeLog()
		store = memory.NewInMemoryStore()
	}

	var embedder memory.Embedder = memory.NewHashEmbedder()
	if cfg.OpenAIAPIKey != "" {
		embedder = memory.NewOpenAIEmbedder(memory.NewOpenAIEmbeddingClient(cfg.OpenAIAPIKey))
	}

	finnhub := provider.NewFinnhubProvider(tracer, cfg.FinnhubAPIKey)
	primary := newPrimaryFeedFunc(tracer, cfg.FinnhubAPIKey)
	secondary := newSecondaryFeedFunc(tracer)

	var redisClient marketdata.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}
	quotes := marketdata.NewService(tracer, primary, secondary, redisClient, cfg.ProviderTimeoutSecs)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	scorer := sentiment.NewScorer(tracer, finnhub, rng, cfg.NewsLookbackDays, cfg.NewsFetchLimit, cfg.NewsAnalyzeLimit, cfg.ProviderTimeoutSecs)

	engine := strategy.NewEngine(strategy.Bands{
		HighPrice:       cfg.MomentumHighPrice,
		MidPrice:        cfg.MomentumMidPrice,
		HighVolume:      cfg.HighVolumeThreshold,
		ValuePrice:      cfg.ValuePriceThreshold,
		TakeProfitPrice: cfg.TakeProfitPrice,
	})

	var advisor risk.Advisor
	if cfg.OpenAIAPIKey != "" {
		advisor = risk.NewLLMAdvisor(tracer, risk.NewOpenAIClient(cfg.OpenAIAPIKey), cfg.OpenAIModel)
	}
	manager := risk.NewManager(tracer, advisor, cfg.ExposureLimit, cfg.AssumedSharePrice)

	var notifier execution.Notifier
	if tg := execution.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID); tg != nil {
		notifier = tg
	}
	executor := execution.NewExecutor(tracer, tradeLog, notifier)

	pipe, err := pipeline.New(tracer, quotes, scorer, engine, manager, executor, store, embedder, cfg.Portfolio, cfg.Capital)
	if err != nil {
		log.Printf("failed to assemble pipeline: %v", err)
		exitFunc(1)
		return
	}

	outputFunc("Portfolio: %v\nCapital: $%.2f\n", cfg.Portfolio, cfg.Capital)
	report := pipe.Run(ctx, cfg.Symbol)
	printReport(report)
}

func printReport(report *pipeline.Report) {
	outputFunc("=== Trading decision for %s ===\n", report.Symbol)
	outputFunc("Quote:      close=%.2f volume=%.0f synthetic=%t\n",
		report.Quote.Close, report.Quote.Volume, report.Quote.Synthetic)
	outputFunc("Sentiment:  %s (%.2f, %s)\n",
		report.Sentiment.Label, report.Sentiment.Score, report.Sentiment.Basis)
	outputFunc("Indicators: sma_short=%.2f sma_long=%.2f rsi=%.1f\n",
		report.Indicators.SMAShort, report.Indicators.SMALong, report.Indicators.RSI)
	outputFunc("Strategy:   %s %d (%s)\n",
		report.Strategy.Action, report.Strategy.Quantity, report.Strategy.Reason)
	outputFunc("Risk:       approved=%t %s %d (%s)\n",
		report.Risk.Approved, report.Risk.Adjusted.Action, report.Risk.Adjusted.Quantity, report.Risk.Reason)
	if report.Trade != nil {
		outputFunc("Executed:   %s %d %s @ %.2f\n",
			report.Trade.Action, report.Trade.Quantity, report.Trade.Symbol, report.Trade.Price)
	} else {
		outputFunc("Executed:   no trade\n")
	}
	outputFunc("Duration:   %s\n", report.FinishedAt.Sub(report.StartedAt))
}
