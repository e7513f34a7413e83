// Package destregistry manages the alert delivery destination: the single
// external identifier (e.g., a chat id) alerts for this working directory are
// sent to.
package destregistry

import "context"

// Service defines the interface for configuring where alerts are delivered.
//
// Implementations are responsible for validating input and delegating
// persistence to the configured DestinationStorage.
type Service interface {
	// SetDestination stores the given identifier as the active alert
	// destination, replacing any previous one.
	//
	// Returns an error if validation fails or persistence cannot be completed.
	SetDestination(ctx context.Context, destination string) error

	// ClearDestination removes the active alert destination. Alerts are
	// silently skipped until a new destination is set.
	ClearDestination(ctx context.Context) error

	// CurrentDestination returns the active alert destination, or
	// ErrNoDestinationConfigured when none has been set.
	CurrentDestination(ctx context.Context) (string, error)
}

// service is the concrete implementation of the Service interface.
// It uses a DestinationStorage backend to persist the destination.
type service struct {
	destinationStorage DestinationStorage
}

// Ensure compile-time compliance with the Service interface.
var _ Service = (*service)(nil)

// New creates a new instance of the destregistry service using the
// provided DestinationStorage implementation.
//
// This constructor is intended to be used by dependency injection
// during application wiring.
func New(ds DestinationStorage) *service {
	return &service{
		destinationStorage: ds,
	}
}
