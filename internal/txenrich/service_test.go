package txenrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abduttayyeb07/Monitor/internal/pkg/logger"
	"github.com/Abduttayyeb07/Monitor/internal/pkg/resilience/retry"
)

func init() {
	_ = logger.Init(logger.WithLevel("error"))
}

type stubFetcher struct {
	calls   int
	results []func() (*TxContext, error)
}

func (f *stubFetcher) FetchTxContext(ctx context.Context, txHash string) (*TxContext, error) {
	defer func() { f.calls++ }()

	if f.calls >= len(f.results) {
		return f.results[len(f.results)-1]()
	}
	return f.results[f.calls]()
}

func fastRetry() retry.Retry {
	return retry.New(retry.WithAttempts(3), retry.WithDelay(time.Millisecond), retry.WithFixedDelay())
}

func TestServiceLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("should fetch each hash at most once", func(t *testing.T) {
		expected := &TxContext{EventType: "wasm", Action: "swap"}
		fetcher := &stubFetcher{results: []func() (*TxContext, error){
			func() (*TxContext, error) { return expected, nil },
		}}
		svc := New(fetcher, WithRetry(fastRetry()))

		first := svc.Lookup(ctx, "H1")
		second := svc.Lookup(ctx, "H1")

		assert.Equal(t, expected, first)
		assert.Equal(t, expected, second)
		assert.Equal(t, 1, fetcher.calls)
	})

	t.Run("should memoize transactions with no context", func(t *testing.T) {
		fetcher := &stubFetcher{results: []func() (*TxContext, error){
			func() (*TxContext, error) { return nil, nil },
		}}
		svc := New(fetcher, WithRetry(fastRetry()))

		assert.Nil(t, svc.Lookup(ctx, "H1"))
		assert.Nil(t, svc.Lookup(ctx, "H1"))
		assert.Equal(t, 1, fetcher.calls)
	})

	t.Run("should retry transient failures before giving up", func(t *testing.T) {
		expected := &TxContext{EventType: "wasm"}
		fetcher := &stubFetcher{results: []func() (*TxContext, error){
			func() (*TxContext, error) { return nil, errors.New("boom") },
			func() (*TxContext, error) { return expected, nil },
		}}
		svc := New(fetcher, WithRetry(fastRetry()))

		got := svc.Lookup(ctx, "H1")

		require.NotNil(t, got)
		assert.Equal(t, expected, got)
		assert.Equal(t, 2, fetcher.calls)
	})

	t.Run("should return nil after exhausting attempts and not fetch again", func(t *testing.T) {
		fetcher := &stubFetcher{results: []func() (*TxContext, error){
			func() (*TxContext, error) { return nil, errors.New("boom") },
		}}
		svc := New(fetcher, WithRetry(fastRetry()))

		assert.Nil(t, svc.Lookup(ctx, "H1"))
		assert.Equal(t, 3, fetcher.calls)

		assert.Nil(t, svc.Lookup(ctx, "H1"))
		assert.Equal(t, 3, fetcher.calls, "an exhausted hash must be served from cache")
	})

	t.Run("should cache hashes independently", func(t *testing.T) {
		fetcher := &stubFetcher{results: []func() (*TxContext, error){
			func() (*TxContext, error) { return &TxContext{Action: "swap"}, nil },
		}}
		svc := New(fetcher, WithRetry(fastRetry()))

		svc.Lookup(ctx, "H1")
		svc.Lookup(ctx, "H2")

		assert.Equal(t, 2, fetcher.calls)
	})
}
