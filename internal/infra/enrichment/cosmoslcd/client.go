// Package cosmoslcd resolves transaction execution context from a Cosmos SDK
// LCD (REST) endpoint. It implements the txenrich.ContextFetcher interface by
// querying the transaction service and scanning the recorded events for the
// first wasm event.
package cosmoslcd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	transporthttp "github.com/Abduttayyeb07/Monitor/internal/pkg/transport/http"
	"github.com/Abduttayyeb07/Monitor/internal/txenrich"
)

// ErrUnexpectedStatus indicates that the LCD endpoint answered with a
// non-success HTTP status.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// defaultRequestTimeout bounds a single lookup attempt. Retrying across
// attempts belongs to the caller, so transport-level retries stay disabled.
const defaultRequestTimeout = 10 * time.Second

// config holds internal settings for the LCD client.
type config struct {
	requestTimeout time.Duration
}

// Option defines a functional option for configuring the LCD client.
type Option func(*config)

// WithRequestTimeout sets the maximum duration of a single lookup request.
// Default: 10 seconds.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *config) {
		c.requestTimeout = d
	}
}

// client is the default implementation of the txenrich.ContextFetcher
// interface backed by a Cosmos LCD endpoint.
type client struct {
	baseURL    string                // The URL of the LCD endpoint, without trailing slash
	httpClient *retryablehttp.Client // The HTTP client used to perform requests
}

// Compile-time assertion that client implements the ContextFetcher interface.
var _ txenrich.ContextFetcher = (*client)(nil)

// NewClient constructs an LCD client for the given base URL, e.g.
// "https://api.zigchain.com".
func NewClient(baseURL string, opts ...Option) *client {
	cfg := config{
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: transporthttp.NewClient(
			transporthttp.WithTimeout(cfg.requestTimeout),
			transporthttp.WithRetryMax(0),
		),
	}
}

// FetchTxContext fetches the transaction identified by txHash and maps its
// first wasm event into a txenrich.TxContext. It returns (nil, nil) when the
// transaction carries no wasm event.
func (c *client) FetchTxContext(ctx context.Context, txHash string) (*txenrich.TxContext, error) {
	url := fmt.Sprintf("%s/cosmos/tx/v1beta1/txs/%s", c.baseURL, txHash)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	}

	var data txLookupResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, err
	}

	event, ok := data.firstWasmEvent()
	if !ok {
		return nil, nil
	}

	return event.toTxContext(), nil
}
