// Package session keeps server-side login sessions in Redis. A session
// exists as long as its key lives; logout and expiry both invalidate
// the access token regardless of its JWT expiry.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Create registers a new session for the user and returns its ID.
func (s *Store) Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	id := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+id, userID.String(), ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// Get returns the user ID bound to the session, or false if the
// session does not exist (expired, logged out, or never created).
func (s *Store) Get(ctx context.Context, sessionID string) (uuid.UUID, bool, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+sessionID).Result()
	if err == redis.Nil {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("get session: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("parse session user: %w", err)
	}
	return userID, true, nil
}

// Refresh slides the session expiry forward.
func (s *Store) Refresh(ctx context.Context, sessionID string, ttl time.Duration) error {
	ok, err := s.rdb.Expire(ctx, keyPrefix+sessionID, ttl).Result()
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s not found", sessionID)
	}
	return nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
