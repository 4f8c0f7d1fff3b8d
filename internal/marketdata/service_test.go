package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"penny-wise/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type stubProvider struct {
	quote domain.Quote
	err   error
	calls int
}

func (s *stubProvider) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	s.calls++
	if s.err != nil {
		return domain.Quote{}, s.err
	}
	return s.quote, nil
}

func TestFetchQuotePrimaryWins(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{quote: domain.Quote{Symbol: "AAPL", Close: 180, Volume: 900_000}}
	secondary := &stubProvider{quote: domain.Quote{Symbol: "AAPL", Close: 179}}
	svc := NewService(testTracer, primary, secondary, nil, 1)

	got := svc.FetchQuote(context.Background(), "AAPL")
	if got.Close != 180 {
		t.Fatalf("expected primary close 180, got %f", got.Close)
	}
	if secondary.calls != 0 {
		t.Fatalf("secondary feed must not be invoked when primary succeeds, got %d calls", secondary.calls)
	}
}

func TestFetchQuoteFallsBackToSecondary(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{err: errors.New("finnhub down")}
	secondary := &stubProvider{quote: domain.Quote{Symbol: "AAPL", Close: 151.2, Volume: 800_000}}
	svc := NewService(testTracer, primary, secondary, nil, 1)

	got := svc.FetchQuote(context.Background(), "AAPL")
	if got.Close != 151.2 {
		t.Fatalf("expected secondary close 151.2, got %f", got.Close)
	}
	if got.Synthetic {
		t.Fatal("secondary quote must not be synthetic")
	}
}

func TestFetchQuoteInvalidPrimaryResultAdvancesChain(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{quote: domain.Quote{Symbol: "AAPL", Close: 0}}
	secondary := &stubProvider{quote: domain.Quote{Symbol: "AAPL", Close: 149}}
	svc := NewService(testTracer, primary, secondary, nil, 1)

	got := svc.FetchQuote(context.Background(), "AAPL")
	if got.Close != 149 {
		t.Fatalf("expected chain to advance past zero close, got %f", got.Close)
	}
	if secondary.calls != 1 {
		t.Fatalf("expected exactly one secondary attempt, got %d", secondary.calls)
	}
}

func TestFetchQuoteExhaustionYieldsSyntheticQuote(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{err: errors.New("down")}
	secondary := &stubProvider{err: errors.New("also down")}
	svc := NewService(testTracer, primary, secondary, nil, 1)

	got := svc.FetchQuote(context.Background(), "AAPL")
	if !got.Synthetic {
		t.Fatal("expected synthetic quote after chain exhaustion")
	}
	if got.Close != 152.5 || got.Volume != 1_000_000 {
		t.Fatalf("unexpected synthetic quote values: %+v", got)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("each provider must be attempted at most once, got %d/%d", primary.calls, secondary.calls)
	}
}

func TestFetchQuoteCacheHitSkipsProviders(t *testing.T) {
	t.Parallel()

	cached := domain.Quote{Symbol: "AAPL", Close: 170, Volume: 750_000}
	data, _ := json.Marshal(cached)
	fake := newFakeRedis()
	_ = fake.Set(context.Background(), "quote:AAPL", data, 0)

	primary := &stubProvider{quote: domain.Quote{Symbol: "AAPL", Close: 999}}
	svc := NewService(testTracer, primary, nil, fake, 1)

	got := svc.FetchQuote(context.Background(), "AAPL")
	if got.Close != 170 {
		t.Fatalf("expected cached close 170, got %f", got.Close)
	}
	if primary.calls != 0 {
		t.Fatalf("providers must not be invoked on cache hit, got %d calls", primary.calls)
	}
}

func TestFetchQuoteSyntheticNeverCached(t *testing.T) {
	t.Parallel()

	fake := newFakeRedis()
	svc := NewService(testTracer, &stubProvider{err: errors.New("down")}, nil, fake, 1)

	got := svc.FetchQuote(context.Background(), "AAPL")
	if !got.Synthetic {
		t.Fatal("expected synthetic quote")
	}
	if _, ok := fake.data["quote:AAPL"]; ok {
		t.Fatal("synthetic quote must not be written to the cache")
	}
}

type fakeRedis struct {
	data   map[string][]byte
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}
