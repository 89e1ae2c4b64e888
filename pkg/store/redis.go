package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	jerrors "github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/retry"
)

// RedisKeyPrefix namespaces document keys.
const RedisKeyPrefix = "jsonlens:doc:"

// RedisOptions configures the redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis keeps the document text in a single redis string key.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis connects to redis and verifies the connection with PING. A
// failed PING is retried with backoff before giving up.
func NewRedis(ctx context.Context, opts RedisOptions, id string) (*Redis, error) {
	addr := opts.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	err := retry.WithBackoff(ctx, func() error {
		return retry.Retryable(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, jerrors.Wrap(jerrors.ErrCodeStore, err, "connect to redis at %s", addr)
	}
	return NewRedisFromClient(client, id), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, id string) *Redis {
	return &Redis{client: client, key: RedisKey(id)}
}

// RedisKey returns the key holding document id.
func RedisKey(id string) string {
	return RedisKeyPrefix + id
}

func (r *Redis) Text(ctx context.Context) (string, error) {
	text, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", notFound(r.key)
	}
	if err != nil {
		return "", jerrors.Wrap(jerrors.ErrCodeStore, err, "get %s", r.key)
	}
	return text, nil
}

func (r *Redis) SetContents(ctx context.Context, text string) error {
	if err := r.client.Set(ctx, r.key, text, 0).Err(); err != nil {
		return jerrors.Wrap(jerrors.ErrCodeStore, err, "set %s", r.key)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
