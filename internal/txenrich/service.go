// Package txenrich resolves transaction hashes into contract execution
// context, memoizing results so each hash is fetched from the chain at most
// once per process lifetime.
package txenrich

import (
	"context"
	"sync"
	"time"

	"github.com/Abduttayyeb07/Monitor/internal/pkg/logger"
	"github.com/Abduttayyeb07/Monitor/internal/pkg/resilience/retry"
)

const (
	defaultLookupAttempts = 3
	defaultLookupDelay    = 2 * time.Second
)

type Service interface {
	// Lookup returns the execution context of txHash, or nil when the
	// transaction has none or the chain could not be reached. Results are
	// memoized, including nil: a hash that yielded nothing is never fetched
	// again.
	Lookup(ctx context.Context, txHash string) *TxContext
}

type service struct {
	fetcher ContextFetcher
	retry   retry.Retry

	mu    sync.Mutex
	cache map[string]*TxContext
}

var _ Service = (*service)(nil)

type config struct {
	retry retry.Retry
}

type Option func(*config)

// WithRetry overrides the lookup retry policy.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

func New(fetcher ContextFetcher, opts ...Option) *service {
	cfg := config{
		retry: retry.New(
			retry.WithAttempts(defaultLookupAttempts),
			retry.WithDelay(defaultLookupDelay),
			retry.WithFixedDelay(),
		),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		fetcher: fetcher,
		retry:   cfg.retry,
		cache:   make(map[string]*TxContext),
	}
}

func (s *service) Lookup(ctx context.Context, txHash string) *TxContext {
	s.mu.Lock()
	cached, ok := s.cache[txHash]
	s.mu.Unlock()
	if ok {
		return cached
	}

	var found *TxContext
	err := s.retry.Execute(ctx, func() error {
		result, err := s.fetcher.FetchTxContext(ctx, txHash)
		if err != nil {
			return err
		}

		found = result
		return nil
	})
	if err != nil {
		logger.Warn(ctx, "transaction context lookup failed, continuing without enrichment", "txHash", txHash, "error", err)
		found = nil
	}

	s.mu.Lock()
	s.cache[txHash] = found
	s.mu.Unlock()

	return found
}
