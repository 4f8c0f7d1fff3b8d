package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"penny-wise/internal/bot"
	"penny-wise/internal/cache"
	"penny-wise/internal/config"
	"penny-wise/internal/db"
	"penny-wise/internal/execution"
	"penny-wise/internal/handler"
	"penny-wise/internal/job"
	"penny-wise/internal/marketdata"
	"penny-wise/internal/memory"
	"penny-wise/internal/pipeline"
	"penny-wise/internal/provider"
	"penny-wise/internal/repository"
	"penny-wise/internal/risk"
	"penny-wise/internal/sentiment"
	"penny-wise/internal/strategy"
	"penny-wise/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newRouterFunc          = gin.Default
	startTelegramBotFunc   = bot.StartTelegramBot
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
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
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Storage: Postgres when available, in-memory otherwise.
	var tradeLog interface {
		execution.TradeLog
		handler.TradeReader
	}
	var store memory.Store
	if db.Pool != nil {
		tradeRepo := repository.NewTradeRepository(db.Pool, tracer)
		memoryRepo := repository.NewMemoryRepository(db.Pool, tracer)
		if err := tradeRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run trade log migrations: %v", err)
		}
		if err := memoryRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run agent memory migrations: %v", err)
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
	yahoo := provider.NewYahooProvider(tracer)

	var redisClient marketdata.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}
	quotes := marketdata.NewService(tracer, finnhub, yahoo, redisClient, cfg.ProviderTimeoutSecs)

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
		log.Fatalf("failed to assemble pipeline: %v", err)
	}

	if cfg.RunIntervalSecs > 0 {
		poller := job.NewPipelineJob(tracer, pipe, []string{cfg.Symbol}, time.Duration(cfg.RunIntervalSecs)*time.Second)
		go poller.Start(ctx)
	}

	startTelegramBotFunc(cfg.TelegramBotToken, pipe, tradeLog)

	h := handler.New(tracer, pipe, tradeLog, store, embedder)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("penny-wise"))
	r.Use(handler.APIKeyAuth(cfg.APIKey))

	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
