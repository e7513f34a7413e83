package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"

	redis "github.com/redis/go-redis/v9"
)

type client struct {
	conn *redis.Client

	// workdirTag scopes every key to the process working directory, so
	// independent deployments sharing one Redis instance do not collide.
	workdirTag string
}

func (c *client) Close() error {
	return c.conn.Close()
}

// workdirTag derives a short stable identifier from the process working
// directory.
func workdirTag() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(wd))
	return hex.EncodeToString(sum[:])[:12], nil
}

func NewClient(ctx context.Context, addr, username, password string, db int) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	tag, err := workdirTag()
	if err != nil {
		return nil, err
	}

	return &client{
		conn:       conn,
		workdirTag: tag,
	}, nil
}
