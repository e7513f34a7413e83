package destregistry

import (
	"context"
	"errors"

	"github.com/Abduttayyeb07/Monitor/internal/pkg/validator"
)

// ErrNoDestinationConfigured is returned when no alert destination has been
// set for this working directory.
var ErrNoDestinationConfigured = errors.New("no alert destination configured")

// destinationInput carries the destination identifier through validation
// before it is persisted.
type destinationInput struct {
	Destination string `validate:"required"` // External delivery identifier (e.g., a chat id)
}

// DestinationStorage defines the persistence interface for the alert
// destination. Implementations key the stored value by the process working
// directory, so independent deployments on one host do not share a
// destination.
type DestinationStorage interface {
	// SaveDestination persists the destination, overwriting any previous one.
	SaveDestination(ctx context.Context, destination string) error

	// DeleteDestination removes the stored destination. Deleting when none
	// is stored is not an error.
	DeleteDestination(ctx context.Context) error

	// LoadDestination returns the stored destination, or
	// ErrNoDestinationConfigured when none has been saved.
	LoadDestination(ctx context.Context) (string, error)
}

// SetDestination validates and persists the destination identifier.
func (s *service) SetDestination(ctx context.Context, destination string) error {
	input := destinationInput{Destination: destination}
	if err := validator.Validate(input); err != nil {
		return err
	}

	return s.destinationStorage.SaveDestination(ctx, input.Destination)
}

// ClearDestination removes the persisted destination.
func (s *service) ClearDestination(ctx context.Context) error {
	return s.destinationStorage.DeleteDestination(ctx)
}

// CurrentDestination returns the persisted destination.
func (s *service) CurrentDestination(ctx context.Context) (string, error) {
	return s.destinationStorage.LoadDestination(ctx)
}
