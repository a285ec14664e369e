// Package session implements the server-side session cache: one record per
// subject binding the subject to its currently valid refresh token.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable wraps any I/O failure against the cache. Callers map
// it to a 5xx response; it must never be mistaken for "no session".
var ErrStoreUnavailable = errors.New("session store unavailable")

// Store is the session cache interface injected into the authentication
// stages. At most one record exists per subject; Set overwrites.
type Store interface {
	Set(ctx context.Context, subject, token string, ttl time.Duration) error
	Get(ctx context.Context, subject string) (string, bool, error)
	Delete(ctx context.Context, subject string) error
	Expire(ctx context.Context, subject string, ttl time.Duration) error
}

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a Redis-backed session store. Keys are the prefix
// followed by the subject username.
func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) key(subject string) string {
	return s.prefix + subject
}

// Set writes the subject's refresh token, replacing any prior record.
func (s *redisStore) Set(ctx context.Context, subject, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(subject), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrStoreUnavailable, s.key(subject), err)
	}
	return nil
}

// Get returns the stored refresh token. A missing key is (.., false, nil),
// not an error.
func (s *redisStore) Get(ctx context.Context, subject string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(subject)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", ErrStoreUnavailable, s.key(subject), err)
	}
	return val, true, nil
}

func (s *redisStore) Delete(ctx context.Context, subject string) error {
	if err := s.client.Del(ctx, s.key(subject)).Err(); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrStoreUnavailable, s.key(subject), err)
	}
	return nil
}

func (s *redisStore) Expire(ctx context.Context, subject string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, s.key(subject), ttl).Err(); err != nil {
		return fmt.Errorf("%w: expire %s: %v", ErrStoreUnavailable, s.key(subject), err)
	}
	return nil
}
