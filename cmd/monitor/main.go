package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Abduttayyeb07/Monitor/internal/chainstream"
	"github.com/Abduttayyeb07/Monitor/internal/config"
	"github.com/Abduttayyeb07/Monitor/internal/destregistry"
	"github.com/Abduttayyeb07/Monitor/internal/handlers/cli"
	"github.com/Abduttayyeb07/Monitor/internal/infra/enrichment/cosmoslcd"
	"github.com/Abduttayyeb07/Monitor/internal/infra/notifier/telegram"
	filestorage "github.com/Abduttayyeb07/Monitor/internal/infra/storage/file"
	redisstorage "github.com/Abduttayyeb07/Monitor/internal/infra/storage/redis"
	"github.com/Abduttayyeb07/Monitor/internal/pkg/coin"
	"github.com/Abduttayyeb07/Monitor/internal/pkg/logger"
	"github.com/Abduttayyeb07/Monitor/internal/pkg/telemetry"
	"github.com/Abduttayyeb07/Monitor/internal/transferwatch"
	"github.com/Abduttayyeb07/Monitor/internal/txenrich"
)

// serviceName identifies this process in telemetry backends.
const serviceName = "monitor"

// destinationStorage is the subset of operations main needs from either
// storage backend: the registry side and the pipeline side.
type destinationStorage interface {
	destregistry.DestinationStorage
	transferwatch.DestinationStorage
}

// newDestinationStorage picks the storage backend: Redis when an address is
// configured, the local filesystem otherwise. The returned cleanup releases
// backend resources and is safe to call once.
func newDestinationStorage(ctx context.Context, cfg config.Config) (destinationStorage, func(), error) {
	if cfg.RedisAddress != "" {
		client, err := redisstorage.NewClient(ctx, cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}

		return client, func() { _ = client.Close() }, nil
	}

	storage, err := filestorage.NewStorage(cfg.DestinationDir)
	if err != nil {
		return nil, nil, err
	}

	return storage, func() {}, nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, serviceName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize telemetry: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = shutdown(ctx) }()
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	minAmount, err := coin.ParseDisplayAmount(cfg.MinAlertAmount, cfg.DisplayScale)
	if err != nil {
		logger.Fatal(ctx, "invalid minimum alert amount", "value", cfg.MinAlertAmount, "error", err)
	}

	storage, cleanup, err := newDestinationStorage(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize destination storage", "error", err)
	}
	defer cleanup()

	var (
		stream     = chainstream.New(cfg.StreamURL)
		enrichment = txenrich.New(cosmoslcd.NewClient(cfg.EnrichmentBaseURL))
		notifier   = telegram.NewClient(cfg.TelegramBotToken)
	)

	monitor := transferwatch.New(stream, enrichment, notifier, storage,
		transferwatch.AlertPolicy{
			Watchlist:    cfg.Watchlist,
			BaseDenom:    cfg.BaseDenom,
			DisplayScale: cfg.DisplayScale,
			MinAmount:    minAmount,
		},
		transferwatch.WithDedupCapacity(cfg.DedupCapacity),
	)

	registry := destregistry.New(storage)

	if err := cli.Run(ctx, registry, monitor); err != nil {
		logger.Fatal(ctx, "monitor exited with an error", "error", err)
	}
}
