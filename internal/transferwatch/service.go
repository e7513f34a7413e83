// Package transferwatch coordinates the ingestion pipeline: it consumes raw
// frames from chainstream, extracts and deduplicates transfers, enriches them
// with execution context, applies the alert policy, and dispatches directional
// alerts through the configured notifier.
package transferwatch

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"

	"github.com/Abduttayyeb07/Monitor/internal/chainstream"
	"github.com/Abduttayyeb07/Monitor/internal/dedup"
	"github.com/Abduttayyeb07/Monitor/internal/pkg/types"
	"github.com/Abduttayyeb07/Monitor/internal/txenrich"
)

// ErrServiceAlreadyStarted is returned if Start is called more than once.
//
// The service must be started only once per lifecycle.
var ErrServiceAlreadyStarted = errors.New("service already started")

// defaultUnmatchedSampleRate logs one out of every N unrecognized payloads,
// keeping a noisy node from flooding the logs.
const defaultUnmatchedSampleRate = 50

// Service defines the transferwatch lifecycle and coordination entrypoint.
type Service interface {
	// Start begins consuming the stream and dispatching alerts.
	//
	// Returns ErrServiceAlreadyStarted if Start is called more than once.
	// Call Close to shut down all background routines.
	Start(ctx context.Context) error

	// Close shuts down the service and cancels all active routines.
	// It is safe to call Close even if the service was never started.
	Close()
}

// closeFunc defines a cleanup routine to stop background goroutines and dependencies.
type closeFunc func()

// config holds internal settings for the transferwatch service.
type config struct {
	dedupCapacity       int
	unmatchedSampleRate int
}

// Option defines a functional option for configuring the transferwatch service.
type Option func(*config)

// WithDedupCapacity bounds how many processed transaction hashes are
// remembered. Default: dedup.DefaultCapacity.
func WithDedupCapacity(n int) Option {
	return func(c *config) {
		c.dedupCapacity = n
	}
}

// WithUnmatchedSampleRate logs one out of every n unrecognized payloads.
// Default: 50.
func WithUnmatchedSampleRate(n int) Option {
	return func(c *config) {
		c.unmatchedSampleRate = n
	}
}

// service is the internal implementation of the transferwatch Service interface.
type service struct {
	mu        sync.Mutex // protects lifecycle state
	isStarted bool       // ensures Start is called only once
	closeFunc closeFunc  // cancels context and cleans up dependencies

	stream             chainstream.Service // source of raw stream frames
	enrichment         txenrich.Service    // execution context lookups
	notifier           TransferNotifier    // alert delivery
	destinationStorage DestinationStorage  // active alert destination

	watchlist    types.Set[string]
	baseDenom    string
	displayScale uint64
	minAmount    *big.Int

	ledger *dedup.Ledger

	unmatchedSampleRate int
	unmatchedCount      uint64 // touched only by the frame consumer goroutine
}

// Compile-time check to ensure *service implements the Service interface.
var _ Service = (*service)(nil)

// New creates a transferwatch service wiring the stream source, enrichment
// lookups, and alert delivery together under the given policy.
func New(
	stream chainstream.Service,
	enrichment txenrich.Service,
	notifier TransferNotifier,
	destinationStorage DestinationStorage,
	policy AlertPolicy,
	opts ...Option,
) *service {
	cfg := config{
		dedupCapacity:       dedup.DefaultCapacity,
		unmatchedSampleRate: defaultUnmatchedSampleRate,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	minAmount := policy.MinAmount
	if minAmount == nil {
		minAmount = big.NewInt(0)
	}

	return &service{
		stream:              stream,
		enrichment:          enrichment,
		notifier:            notifier,
		destinationStorage:  destinationStorage,
		watchlist:           types.NewSet(policy.Watchlist...),
		baseDenom:           strings.ToLower(strings.TrimSpace(policy.BaseDenom)),
		displayScale:        policy.DisplayScale,
		minAmount:           minAmount,
		ledger:              dedup.NewLedger(cfg.dedupCapacity),
		unmatchedSampleRate: cfg.unmatchedSampleRate,
	}
}

// Start opens the stream subscription and begins handling frames.
func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)

	framesCh, err := s.stream.Start(ctx)
	if err != nil {
		cancel()
		return err
	}

	s.startHandleFrames(ctx, framesCh)

	s.closeFunc = func() {
		cancel()
		s.stream.Close()
	}
	s.isStarted = true
	return nil
}

// Close shuts down frame handling and the underlying stream.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}

	s.closeFunc = nil
	s.isStarted = false
}
