package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
)

// RedisStore keeps each collection in a Redis list. LPUSH puts the newest
// report at the head, so LRANGE 0 -1 yields newest-first order.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures a RedisStore connection.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisStore connects a store to the given Redis server.
func NewRedisStore(opts RedisOptions) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisStoreFromClient(client, opts.KeyPrefix)
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, prefix: keyPrefix}
}

func (s *RedisStore) listKey(c domain.Collection) string { return s.prefix + string(c) }

func (s *RedisStore) idsKey() string { return s.prefix + "ids" }

func (s *RedisStore) Append(ctx context.Context, c domain.Collection, r domain.Report) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	data, err := encodeReport(r)
	if err != nil {
		return err
	}

	added, err := s.client.SAdd(ctx, s.idsKey(), r.ID).Result()
	if err != nil {
		return fmt.Errorf("redis register report %s: %w", r.ID, err)
	}
	if added == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateReport, r.ID)
	}

	if err := s.client.LPush(ctx, s.listKey(c), data).Err(); err != nil {
		// Release the ID so a retry is not rejected as a duplicate.
		s.client.SRem(ctx, s.idsKey(), r.ID)
		return fmt.Errorf("redis append %s report: %w", c, err)
	}
	return nil
}

func (s *RedisStore) LoadAll(ctx context.Context, c domain.Collection) ([]domain.Report, error) {
	if err := checkCollection(c); err != nil {
		return nil, err
	}

	values, err := s.client.LRange(ctx, s.listKey(c), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load %s reports: %w", c, err)
	}

	payloads := make([][]byte, len(values))
	for i, v := range values {
		payloads[i] = []byte(v)
	}
	return decodeReports(payloads)
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
