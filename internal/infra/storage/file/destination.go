package file

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/Abduttayyeb07/Monitor/internal/destregistry"
	"github.com/Abduttayyeb07/Monitor/internal/transferwatch"
)

// SaveDestination writes the alert destination to the backing file,
// overwriting any previous value.
func (s *storage) SaveDestination(_ context.Context, destination string) error {
	return os.WriteFile(s.path, []byte(destination+"\n"), 0o600)
}

// DeleteDestination removes the backing file. Deleting a destination that was
// never set is not an error.
func (s *storage) DeleteDestination(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// LoadDestination reads the alert destination from the backing file.
//
// If the file is missing or holds only whitespace, it returns
// destregistry.ErrNoDestinationConfigured.
func (s *storage) LoadDestination(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = destregistry.ErrNoDestinationConfigured
		}

		return "", err
	}

	destination := strings.TrimSpace(string(data))
	if destination == "" {
		return "", destregistry.ErrNoDestinationConfigured
	}

	return destination, nil
}

// Compile-time assertions that the storage serves both the registry and the
// pipeline sides of destination storage.
var (
	_ destregistry.DestinationStorage  = new(storage)
	_ transferwatch.DestinationStorage = new(storage)
)
