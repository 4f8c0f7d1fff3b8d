package job

import (
	"context"
	"log"
	"time"

	"penny-wise/internal/pipeline"

	"go.opentelemetry.io/otel/trace"
)

type PipelineRunner interface {
	Run(ctx context.Context, symbol string) *pipeline.Report
}

// PipelineJob re-evaluates the configured symbols on a fixed interval.
// It runs once immediately on start.
type PipelineJob struct {
	tracer       trace.Tracer
	runner       PipelineRunner
	symbols      []string
	pollInterval time.Duration
}

func NewPipelineJob(tracer trace.Tracer, runner PipelineRunner, symbols []string, pollInterval time.Duration) *PipelineJob {
	if pollInterval <= 0 {
		pollInterval = 15 * time.Minute
	}
	return &PipelineJob{tracer: tracer, runner: runner, symbols: symbols, pollInterval: pollInterval}
}

func (j *PipelineJob) Start(ctx context.Context) {
	if j.runner == nil || len(j.symbols) == 0 {
		log.Println("Pipeline job disabled: no runner or symbols")
		<-ctx.Done()
		return
	}

	j.runOnce(ctx)
	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *PipelineJob) runOnce(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "pipeline-job.run-once")
	defer span.End()

	for _, symbol := range j.symbols {
		if ctx.Err() != nil {
			return
		}
		report := j.runner.Run(ctx, symbol)
		if report.Trade != nil {
			log.Printf(
				"Pipeline cycle complete symbol=%s action=%s quantity=%d price=%.2f",
				symbol,
				report.Trade.Action,
				report.Trade.Quantity,
				report.Trade.Price,
			)
		} else {
			log.Printf("Pipeline cycle complete symbol=%s action=hold", symbol)
		}
	}
}
