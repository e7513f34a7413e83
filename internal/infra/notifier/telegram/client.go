// Package telegram delivers transfer alerts to a Telegram chat through the
// Bot API. It implements the transferwatch.TransferNotifier interface; the
// destination it is handed is the target chat id.
package telegram

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
	"github.com/Abduttayyeb07/Monitor/internal/transferwatch"
)

// ErrUnexpectedStatus indicates that the Bot API answered with a non-success
// HTTP status.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// defaultAPIBaseURL is the public Bot API endpoint.
const defaultAPIBaseURL = "https://api.telegram.org"

// defaultRequestTimeout bounds a single delivery attempt. Alerts are
// delivered at most once, so transport-level retries stay disabled.
const defaultRequestTimeout = 10 * time.Second

// config holds internal settings for the Bot API client.
type config struct {
	apiBaseURL     string
	requestTimeout time.Duration
}

// Option defines a functional option for configuring the Bot API client.
type Option func(*config)

// WithAPIBaseURL overrides the Bot API base URL, mainly for tests.
// Default: https://api.telegram.org.
func WithAPIBaseURL(u string) Option {
	return func(c *config) {
		c.apiBaseURL = u
	}
}

// WithRequestTimeout sets the maximum duration of a single delivery request.
// Default: 10 seconds.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *config) {
		c.requestTimeout = d
	}
}

// client is the default implementation of the transferwatch.TransferNotifier
// interface backed by the Telegram Bot API.
type client struct {
	sendMessageURL string                // Fully assembled sendMessage endpoint, token included
	httpClient     *retryablehttp.Client // The HTTP client used to perform requests
}

// Compile-time assertion that client implements the TransferNotifier interface.
var _ transferwatch.TransferNotifier = (*client)(nil)

// NewClient constructs a Bot API client for the given bot token.
func NewClient(botToken string, opts ...Option) *client {
	cfg := config{
		apiBaseURL:     defaultAPIBaseURL,
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &client{
		sendMessageURL: fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(cfg.apiBaseURL, "/"), botToken),
		httpClient: transporthttp.NewClient(
			transporthttp.WithTimeout(cfg.requestTimeout),
			transporthttp.WithRetryMax(0),
		),
	}
}

// NotifyTransfer posts one alert as a sendMessage call to the destination
// chat. A non-success HTTP status is reported as ErrUnexpectedStatus.
func (c *client) NotifyTransfer(ctx context.Context, destination string, alert transferwatch.Alert) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID: destination,
		Text:   formatAlertText(alert),
	})
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.sendMessageURL, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	}

	return nil
}
