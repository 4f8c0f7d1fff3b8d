package handler

import (
	"context"

	"penny-wise/internal/domain"
	"penny-wise/internal/memory"
	"penny-wise/internal/pipeline"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// PipelineRunner triggers one full evaluation for a symbol.
type PipelineRunner interface {
	Run(ctx context.Context, symbol string) *pipeline.Report
}

// TradeReader reads back executed trades, newest first.
type TradeReader interface {
	RecentTrades(ctx context.Context, limit int) ([]domain.TradeRecord, error)
}

type Handler struct {
	tracer   trace.Tracer
	runner   PipelineRunner
	trades   TradeReader
	store    memory.Store
	embedder memory.Embedder
}

func New(tracer trace.Tracer, runner PipelineRunner, trades TradeReader, store memory.Store, embedder memory.Embedder) *Handler {
	return &Handler{
		tracer:   tracer,
		runner:   runner,
		trades:   trades,
		store:    store,
		embedder: embedder,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.POST("/api/run", h.TriggerRun)
	r.GET("/api/trades", h.GetTrades)
	r.GET("/api/memory/:agentType", h.GetMemory)
}
