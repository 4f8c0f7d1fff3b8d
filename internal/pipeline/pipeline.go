package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"penny-wise/internal/domain"
	"penny-wise/internal/memory"
	"penny-wise/internal/strategy"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// State names a stage of the pipeline run.
type State string

const (
	StateInit             State = "init"
	StateDataFetch        State = "data_fetch"
	StateSentimentFetch   State = "sentiment_fetch"
	StateIndicatorCompute State = "indicator_compute"
	StateStrategyGenerate State = "strategy_generate"
	StateRiskEvaluate     State = "risk_evaluate"
	StateExecute          State = "execute"
	StateHold             State = "hold"
	StateDone             State = "done"
)

// QuoteFetcher never fails; exhaustion ends in a synthetic quote.
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, symbol string) domain.Quote
}

type SentimentScorer interface {
	Score(ctx context.Context, symbol string) domain.SentimentScore
}

type StrategyGenerator interface {
	Generate(sentiment domain.SentimentScore, indicators domain.Indicators) domain.Strategy
}

type RiskEvaluator interface {
	Evaluate(ctx context.Context, strategy domain.Strategy, portfolio domain.Portfolio, capital float64) domain.RiskDecision
}

type TradeExecutor interface {
	Execute(ctx context.Context, symbol string, strategy domain.Strategy, price float64) (*domain.TradeRecord, error)
}

// Report is the outcome of one pipeline run. Stage values are transient:
// they live only in this report once the run finishes.
type Report struct {
	Symbol     string                `json:"symbol"`
	Quote      domain.Quote          `json:"quote"`
	Sentiment  domain.SentimentScore `json:"sentiment"`
	Indicators domain.Indicators     `json:"indicators"`
	Strategy   domain.Strategy       `json:"strategy"`
	Risk       domain.RiskDecision   `json:"risk"`
	Trade      *domain.TradeRecord   `json:"trade,omitempty"`
	FinalState State                 `json:"final_state"`
	Trail      []State               `json:"trail"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
}

// Pipeline sequences the five stages for a symbol and records every
// stage's output in the memory store. One Pipeline serves concurrent
// runs: all per-run state lives in the Report.
type Pipeline struct {
	tracer    trace.Tracer
	quotes    QuoteFetcher
	sentiment SentimentScorer
	strategy  StrategyGenerator
	risk      RiskEvaluator
	executor  TradeExecutor
	store     memory.Store
	embedder  memory.Embedder
	portfolio domain.Portfolio
	capital   float64
	now       func() time.Time
}

func New(
	tracer trace.Tracer,
	quotes QuoteFetcher,
	sentiment SentimentScorer,
	strategy StrategyGenerator,
	risk RiskEvaluator,
	executor TradeExecutor,
	store memory.Store,
	embedder memory.Embedder,
	portfolio domain.Portfolio,
	capital float64,
) (*Pipeline, error) {
	if quotes == nil || sentiment == nil || strategy == nil || risk == nil || executor == nil {
		return nil, fmt.Errorf("pipeline setup: all stage components are required")
	}
	if store == nil || embedder == nil {
		return nil, fmt.Errorf("pipeline setup: memory store and embedder are required")
	}
	return &Pipeline{
		tracer:    tracer,
		quotes:    quotes,
		sentiment: sentiment,
		strategy:  strategy,
		risk:      risk,
		executor:  executor,
		store:     store,
		embedder:  embedder,
		portfolio: portfolio,
		capital:   capital,
		now:       time.Now,
	}, nil
}

// Run drives one evaluation for symbol. Every stage always produces a
// value (possibly a fallback) and advances; there is no mid-pipeline
// abort for a single provider failure.
func (p *Pipeline) Run(ctx context.Context, symbol string) *Report {
	ctx, span := p.tracer.Start(ctx, "pipeline.run")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	report := &Report{
		Symbol:    symbol,
		StartedAt: p.now(),
		Trail:     []State{StateInit},
	}
	advance := func(s State) {
		report.Trail = append(report.Trail, s)
	}

	advance(StateDataFetch)
	report.Quote = p.quotes.FetchQuote(ctx, symbol)
	p.remember(ctx, domain.AgentMarketData,
		fmt.Sprintf("Current price: $%.2f, Volume: %.0f", report.Quote.Close, report.Quote.Volume),
		map[string]string{
			"symbol":    symbol,
			"close":     fmt.Sprintf("%.2f", report.Quote.Close),
			"volume":    fmt.Sprintf("%.0f", report.Quote.Volume),
			"synthetic": fmt.Sprintf("%t", report.Quote.Synthetic),
		})

	advance(StateSentimentFetch)
	report.Sentiment = p.sentiment.Score(ctx, symbol)
	p.remember(ctx, domain.AgentSentiment,
		fmt.Sprintf("%s sentiment %.2f for %s", report.Sentiment.Label, report.Sentiment.Score, symbol),
		map[string]string{
			"symbol": symbol,
			"label":  string(report.Sentiment.Label),
			"score":  fmt.Sprintf("%.2f", report.Sentiment.Score),
			"basis":  string(report.Sentiment.Basis),
		})

	advance(StateIndicatorCompute)
	report.Indicators = strategy.ComputeIndicators(report.Quote)

	advance(StateStrategyGenerate)
	report.Strategy = p.strategy.Generate(report.Sentiment, report.Indicators)
	p.remember(ctx, domain.AgentStrategy,
		fmt.Sprintf("%s %d %s: %s", report.Strategy.Action, report.Strategy.Quantity, symbol, report.Strategy.Reason),
		map[string]string{
			"symbol":   symbol,
			"action":   string(report.Strategy.Action),
			"quantity": fmt.Sprintf("%d", report.Strategy.Quantity),
			"reason":   report.Strategy.Reason,
		})

	advance(StateRiskEvaluate)
	report.Risk = p.risk.Evaluate(ctx, report.Strategy, p.portfolio, p.capital)
	p.remember(ctx, domain.AgentRisk,
		fmt.Sprintf("approved=%t %s %d %s: %s", report.Risk.Approved,
			report.Risk.Adjusted.Action, report.Risk.Adjusted.Quantity, symbol, report.Risk.Reason),
		map[string]string{
			"symbol":   symbol,
			"approved": fmt.Sprintf("%t", report.Risk.Approved),
			"action":   string(report.Risk.Adjusted.Action),
			"quantity": fmt.Sprintf("%d", report.Risk.Adjusted.Quantity),
			"reason":   report.Risk.Reason,
		})

	if report.Risk.Approved && report.Risk.Adjusted.Action != domain.ActionHold {
		advance(StateExecute)
		trade, err := p.executor.Execute(ctx, symbol, report.Risk.Adjusted, report.Quote.Close)
		if err != nil {
			log.Printf("trade execution degraded for %s: %v", symbol, err)
		}
		report.Trade = trade
	} else {
		advance(StateHold)
		if !report.Risk.Approved {
			log.Printf("trade not approved for %s: %s", symbol, report.Risk.Reason)
		} else if _, err := p.executor.Execute(ctx, symbol, report.Risk.Adjusted, report.Quote.Close); err != nil {
			log.Printf("hold notification failed for %s: %v", symbol, err)
		}
	}

	advance(StateDone)
	report.FinalState = StateDone
	report.FinishedAt = p.now()
	return report
}

// remember embeds a stage summary and appends it to the memory store.
// Memory failures never stop the pipeline.
func (p *Pipeline) remember(ctx context.Context, agentType domain.AgentType, summary string, metadata map[string]string) {
	embedding, err := p.embedder.Embed(ctx, summary)
	if err != nil {
		log.Printf("embedding failed for %s memory: %v", agentType, err)
		return
	}
	entry := domain.MemoryEntry{
		AgentType: agentType,
		Embedding: embedding,
		Metadata:  metadata,
		Timestamp: p.now(),
	}
	if err := p.store.Append(ctx, entry); err != nil {
		log.Printf("memory append failed for %s: %v", agentType, err)
	}
}
