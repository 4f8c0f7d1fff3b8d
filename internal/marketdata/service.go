package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"penny-wise/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const quoteCacheTTL = 90 * time.Second

// QuoteProvider is a single upstream market feed. It may fail; the
// service owns the fallback policy.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (domain.Quote, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Service produces a canonical Quote through an ordered fallback chain:
// primary feed, then secondary feed, then the fixed synthetic quote.
// FetchQuote never fails to the caller.
type Service struct {
	tracer      trace.Tracer
	primary     QuoteProvider
	secondary   QuoteProvider
	redis       RedisClient
	callTimeout time.Duration
	now         func() time.Time
}

func NewService(
	tracer trace.Tracer,
	primary QuoteProvider,
	secondary QuoteProvider,
	redisClient RedisClient,
	callTimeoutSecs int,
) *Service {
	if callTimeoutSecs <= 0 {
		callTimeoutSecs = 10
	}
	return &Service{
		tracer:      tracer,
		primary:     primary,
		secondary:   secondary,
		redis:       redisClient,
		callTimeout: time.Duration(callTimeoutSecs) * time.Second,
		now:         time.Now,
	}
}

// FetchQuote walks the fallback chain. Provider errors are absorbed and
// logged; the chain ends at a synthetic quote, so a value always comes back.
// Attempts are sequential: a provider is only tried after the previous one
// has failed or returned an unusable result.
func (s *Service) FetchQuote(ctx context.Context, symbol string) domain.Quote {
	ctx, span := s.tracer.Start(ctx, "marketdata.fetch-quote")
	defer span.End()

	if cached := s.getCached(ctx, symbol); cached != nil {
		return *cached
	}

	if s.primary != nil {
		quote, err := s.tryProvider(ctx, s.primary, symbol)
		if err != nil {
			log.Printf("primary market feed failed for %s: %v", symbol, err)
		} else if quote.Close > 0 {
			s.setCached(ctx, quote)
			return quote
		} else {
			log.Printf("primary market feed returned empty quote for %s", symbol)
		}
	}

	if s.secondary != nil {
		quote, err := s.tryProvider(ctx, s.secondary, symbol)
		if err != nil {
			log.Printf("secondary market feed failed for %s: %v", symbol, err)
		} else if quote.Close > 0 {
			s.setCached(ctx, quote)
			return quote
		} else {
			log.Printf("secondary market feed returned empty quote for %s", symbol)
		}
	}

	log.Printf("all market feeds exhausted for %s, using synthetic quote", symbol)
	return domain.SyntheticQuote(symbol, s.now())
}

func (s *Service) tryProvider(ctx context.Context, p QuoteProvider, symbol string) (domain.Quote, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return p.Quote(callCtx, symbol)
}

func (s *Service) getCached(ctx context.Context, symbol string) *domain.Quote {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, quoteCacheKey(symbol)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("redis quote cache read error: %v", err)
		}
		return nil
	}
	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		log.Printf("corrupt cached quote for %s: %v", symbol, err)
		return nil
	}
	return &quote
}

// setCached stores a live quote. Synthetic quotes are never cached: a
// stand-in must not mask a feed recovering within the TTL.
func (s *Service) setCached(ctx context.Context, quote domain.Quote) {
	if s.redis == nil || quote.Synthetic {
		return
	}
	data, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, quoteCacheKey(quote.Symbol), data, quoteCacheTTL).Err(); err != nil {
		log.Printf("redis quote cache write error: %v", err)
	}
}

func quoteCacheKey(symbol string) string {
	return fmt.Sprintf("quote:%s", symbol)
}
