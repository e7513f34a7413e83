// Package config loads the process configuration from MONITOR_* environment
// variables and validates it before anything else starts.
package config

import (
	"github.com/kelseyhightower/envconfig"

	"github.com/Abduttayyeb07/Monitor/internal/pkg/validator"
)

// envPrefix namespaces every configuration variable, e.g. MONITOR_STREAM_URL.
const envPrefix = "monitor"

// Config carries every knob the monitor reads from the environment.
type Config struct {
	// StreamURL is the websocket endpoint of the node event stream.
	StreamURL string `envconfig:"STREAM_URL" default:"wss://rpc.zigchain.com/websocket" validate:"required"`

	// EnrichmentBaseURL is the LCD endpoint used for transaction lookups.
	EnrichmentBaseURL string `envconfig:"ENRICHMENT_BASE_URL" default:"https://api.zigchain.com" validate:"required"`

	// Watchlist holds the watched account identifiers, comma separated in
	// the environment. An empty watchlist never alerts.
	Watchlist []string `envconfig:"WATCHLIST"`

	// MinAlertAmount is the minimum transfer size that alerts, expressed in
	// display units (e.g. "1000" or "1,000.5").
	MinAlertAmount string `envconfig:"MIN_ALERT_AMOUNT" default:"1000" validate:"required"`

	// BaseDenom is the only denomination that alerts.
	BaseDenom string `envconfig:"BASE_DENOM" default:"uzig" validate:"required"`

	// DisplayScale is the number of base units per display unit.
	DisplayScale uint64 `envconfig:"DISPLAY_SCALE" default:"1000000" validate:"required"`

	// DedupCapacity bounds the processed-transaction ledger.
	DedupCapacity int `envconfig:"DEDUP_CAPACITY" default:"10000"`

	// TelegramBotToken authenticates against the Telegram Bot API.
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" validate:"required"`

	// RedisAddress switches destination storage to Redis when set. The
	// remaining Redis fields are only read in that case.
	RedisAddress  string `envconfig:"REDIS_ADDRESS"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"`

	// DestinationDir overrides the base directory of the file-backed
	// destination store.
	DestinationDir string `envconfig:"DESTINATION_DIR"`

	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`
}

// Load reads the MONITOR_* environment variables into a Config and validates
// the result. A failure here is fatal at startup.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
