package job

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"penny-wise/internal/pipeline"

	"go.opentelemetry.io/otel/trace"
)

type pipelineRunnerTestStub struct {
	calls   *int32
	mu      sync.Mutex
	symbols []string
}

func (s *pipelineRunnerTestStub) Run(ctx context.Context, symbol string) *pipeline.Report {
	atomic.AddInt32(s.calls, 1)
	s.mu.Lock()
	s.symbols = append(s.symbols, symbol)
	s.mu.Unlock()
	return &pipeline.Report{Symbol: symbol, FinalState: pipeline.StateDone}
}

func TestPipelineJobRunsAtLeastOnce(t *testing.T) {
	var calls int32
	runner := &pipelineRunnerTestStub{calls: &calls}
	job := NewPipelineJob(trace.NewNoopTracerProvider().Tracer("test"), runner, []string{"AAPL", "GOOGL"}, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if atomic.LoadInt32(&calls) < 2 {
		t.Fatalf("expected both symbols to run, got %d calls", atomic.LoadInt32(&calls))
	}
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.symbols[0] != "AAPL" || runner.symbols[1] != "GOOGL" {
		t.Fatalf("unexpected symbol order: %v", runner.symbols)
	}
}

func TestPipelineJobDisabledWithoutRunner(t *testing.T) {
	job := NewPipelineJob(trace.NewNoopTracerProvider().Tracer("test"), nil, []string{"AAPL"}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop after cancel")
	}
}
