// Package store persists collected episodes in redis so expensive
// random-policy sweeps can be shared between training runs.
package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/KONPEITO1205/machina/traj"
)

// RedisStore keeps episodes in a redis list, one JSON document per episode
type RedisStore struct {
	cli *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		cli: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.cli.Ping(ctx).Err()
}

// Push appends episodes to the list stored under key
func (s *RedisStore) Push(ctx context.Context, key string, epis []*traj.Epi) error {
	for _, e := range epis {
		bs, err := encodeEpi(e)
		if err != nil {
			return err
		}
		if err := s.cli.RPush(ctx, key, bs).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Load returns all episodes stored under key
func (s *RedisStore) Load(ctx context.Context, key string) ([]*traj.Epi, error) {
	vals, err := s.cli.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	epis := make([]*traj.Epi, 0, len(vals))
	for _, v := range vals {
		e, err := decodeEpi([]byte(v))
		if err != nil {
			return nil, err
		}
		epis = append(epis, e)
	}
	return epis, nil
}

// Len returns the number of episodes stored under key
func (s *RedisStore) Len(ctx context.Context, key string) (int64, error) {
	return s.cli.LLen(ctx, key).Result()
}

// Clear removes the list stored under key
func (s *RedisStore) Clear(ctx context.Context, key string) error {
	return s.cli.Del(ctx, key).Err()
}

func (s *RedisStore) Close() error {
	return s.cli.Close()
}

func encodeEpi(e *traj.Epi) ([]byte, error) {
	return json.Marshal(e)
}

func decodeEpi(bs []byte) (*traj.Epi, error) {
	e := &traj.Epi{}
	if err := json.Unmarshal(bs, e); err != nil {
		return nil, err
	}
	return e, nil
}
