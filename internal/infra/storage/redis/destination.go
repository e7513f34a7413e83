package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abduttayyeb07/Monitor/internal/destregistry"
	"github.com/Abduttayyeb07/Monitor/internal/transferwatch"

	"github.com/redis/go-redis/v9"
)

// destinationKeyPrefix is the Redis key namespace for the alert destination.
const destinationKeyPrefix = "alertdest"

// destinationKey builds the Redis key under which the alert destination is
// stored for one working directory.
//
// Format: "alertdest:destination:{workdirTag}"
func destinationKey(workdirTag string) string {
	return fmt.Sprintf("%s:destination:%s", destinationKeyPrefix, workdirTag)
}

// SaveDestination persists the alert destination for this working directory,
// overwriting any previous value. The key carries no expiration.
func (c *client) SaveDestination(ctx context.Context, destination string) error {
	return c.conn.Set(ctx, destinationKey(c.workdirTag), destination, 0).Err()
}

// DeleteDestination removes the stored alert destination. Deleting a
// destination that was never set is not an error.
func (c *client) DeleteDestination(ctx context.Context) error {
	return c.conn.Del(ctx, destinationKey(c.workdirTag)).Err()
}

// LoadDestination retrieves the alert destination for this working directory.
//
// If none has been saved, it returns destregistry.ErrNoDestinationConfigured.
func (c *client) LoadDestination(ctx context.Context) (string, error) {
	val, err := c.conn.Get(ctx, destinationKey(c.workdirTag)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = destregistry.ErrNoDestinationConfigured
		}

		return "", err
	}

	return val, nil
}

// Compile-time assertions that the client serves both the registry and the
// pipeline sides of destination storage.
var (
	_ destregistry.DestinationStorage  = new(client)
	_ transferwatch.DestinationStorage = new(client)
)
