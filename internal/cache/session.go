package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/worksheesh/worksheesh/internal/model"
)

const (
	// sessionPrefix is the Redis key prefix for session records.
	sessionPrefix = "session:"
	// userSessionsPrefix is the Redis key prefix for the per-user session index.
	userSessionsPrefix = "session:user:"
)

// ErrSessionNotFound indicates the session does not exist or was revoked.
var ErrSessionNotFound = errors.New("session not found")

// cachedSession represents a session stored in Redis.
type cachedSession struct {
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func sessionKey(sessionID string) string {
	return sessionPrefix + sessionID
}

func userSessionsKey(userID string) string {
	return userSessionsPrefix + userID
}

// PutSession stores a session until its expiry and indexes it under its user.
func (c *Cache) PutSession(ctx context.Context, session *model.Session) error {
	ttl := session.TTL(time.Now())
	if ttl <= 0 {
		return fmt.Errorf("store session %s: already expired", session.ID)
	}

	data, err := json.Marshal(cachedSession{
		UserID:    session.UserID,
		IssuedAt:  session.IssuedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	indexKey := userSessionsKey(session.UserID)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, ttl)
	pipe.SAdd(ctx, indexKey, session.ID)
	pipe.Expire(ctx, indexKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	return nil
}

// GetSession loads a session by ID.
// Returns ErrSessionNotFound if it expired or was revoked.
func (c *Cache) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted entry - treat as revoked
		return nil, ErrSessionNotFound
	}

	return &model.Session{
		ID:        sessionID,
		UserID:    cached.UserID,
		IssuedAt:  cached.IssuedAt,
		ExpiresAt: cached.ExpiresAt,
	}, nil
}

// RevokeSession deletes a single session.
func (c *Cache) RevokeSession(ctx context.Context, session *model.Session) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, sessionKey(session.ID))
	pipe.SRem(ctx, userSessionsKey(session.UserID), session.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// revokeUserSessionsScript reads the user's index and deletes every indexed
// session plus the index in one step, so a session stored concurrently is
// either revoked with the rest or keeps its index entry.
// KEYS[1] = index key, ARGV[1] = session key prefix. Returns sessions removed.
var revokeUserSessionsScript = redis.NewScript(`
	local ids = redis.call('SMEMBERS', KEYS[1])
	local removed = 0
	for _, id in ipairs(ids) do
		removed = removed + redis.call('DEL', ARGV[1] .. id)
	end
	redis.call('DEL', KEYS[1])
	return removed
`)

// RevokeUserSessions deletes every session indexed under the user.
// Returns the number of session records removed.
func (c *Cache) RevokeUserSessions(ctx context.Context, userID string) (int64, error) {
	removed, err := revokeUserSessionsScript.Run(ctx, c.client,
		[]string{userSessionsKey(userID)}, sessionPrefix,
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("revoke user sessions: %w", err)
	}
	return removed, nil
}
