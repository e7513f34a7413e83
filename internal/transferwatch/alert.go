package transferwatch

import (
	"context"
	"math/big"
	"time"

	"github.com/Abduttayyeb07/Monitor/internal/txenrich"
)

// Direction states which side of a transfer the watched wallet was on.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// Alert is one fully populated notification about a watched wallet's
// transfer. A self-transfer produces two alerts for the same transaction,
// one per direction.
type Alert struct {
	ID            string    // Unique alert identifier
	Wallet        string    // The watched wallet this alert concerns
	Direction     Direction // Whether the wallet sent or received
	DisplayAmount string    // Display-scaled amount, e.g. "1,234.56789"
	BaseAmount    *big.Int  // Amount in base denomination units
	Denom         string
	TxHash        string
	Sender        string
	Recipient     string
	Context       *txenrich.TxContext // Execution context, nil when unavailable
	ObservedAt    time.Time
}

// TransferNotifier delivers alerts to the outside world.
//
// This interface is useful for triggering downstream processing,
// alerting users, or publishing events based on wallet activity.
type TransferNotifier interface {
	// NotifyTransfer delivers one alert to the given destination. Delivery
	// failures are logged and swallowed by the caller; an alert is never
	// retried.
	NotifyTransfer(ctx context.Context, destination string, alert Alert) error
}

// DestinationStorage resolves the active alert destination. The service
// treats it as authoritative but does not own its storage format.
type DestinationStorage interface {
	// LoadDestination returns the configured delivery destination, or
	// destregistry.ErrNoDestinationConfigured when none has been set.
	LoadDestination(ctx context.Context) (string, error)
}

// AlertPolicy is the filter a transfer must pass before an alert fires:
// one of its sides is on the watchlist, its denom matches the base denom,
// and its amount meets the minimum.
type AlertPolicy struct {
	Watchlist    []string // Watched account identifiers
	BaseDenom    string   // Only transfers of this denom alert
	DisplayScale uint64   // Base units per display unit
	MinAmount    *big.Int // Minimum amount in base units, nil means no minimum
}
