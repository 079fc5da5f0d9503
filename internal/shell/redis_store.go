// README: Session store backed by Redis string keys with TTL.
package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	SessionKeyPrefix = "tripgenie:session:"
	// Optimistic-lock retries for Update before giving up with ErrStoreConflict.
	maxUpdateRetries = 5
)

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStore(redis *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: redis, ttl: ttl}
}

func sessionKey(sid string) string {
	return SessionKeyPrefix + sid
}

func (s *RedisStore) Load(ctx context.Context, sid string) (State, error) {
	return s.load(ctx, s.redis, sessionKey(sid))
}

func (s *RedisStore) Save(ctx context.Context, sid string, st State) error {
	payload, err := MarshalState(st)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, sessionKey(sid), payload, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.redis.Del(ctx, sessionKey(sid)).Err()
}

// Update runs fn inside WATCH/MULTI so concurrent writers cannot interleave.
func (s *RedisStore) Update(ctx context.Context, sid string, fn UpdateFunc) error {
	key := sessionKey(sid)
	txf := func(tx *redis.Tx) error {
		cur, err := s.load(ctx, tx, key)
		if errors.Is(err, ErrSessionNotFound) {
			cur = NewIdle()
		} else if err != nil {
			return err
		}
		next, err := fn(cur)
		if err != nil || next == nil {
			return err
		}
		payload, err := MarshalState(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.redis.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrStoreConflict
}

func (s *RedisStore) load(ctx context.Context, c getter, key string) (State, error) {
	b, err := c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return UnmarshalState(b)
}
