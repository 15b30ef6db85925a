// Package testutil holds shared helpers for integration and handler tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/worksheesh/worksheesh/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 424242

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

// UniqueID generates a unique ULID-based ID for tests.
func UniqueID(prefix string) string {
	return prefix + "-" + ulid.Make().String()
}

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB) *model.User {
	t.Helper()
	id := UniqueID("user")
	return &model.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      "Test Teacher",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// NewTestProfile creates a teacher profile owned by userID.
func NewTestProfile(t testing.TB, userID string) *model.TeacherProfile {
	t.Helper()
	return &model.TeacherProfile{
		ID:        UniqueID("profile"),
		UserID:    userID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// NewTestWorksheet creates a worksheet owned by profileID.
// lastEdited may be nil for a worksheet that was never edited.
func NewTestWorksheet(t testing.TB, profileID, title string, lastEdited *time.Time) *model.Worksheet {
	t.Helper()
	return &model.Worksheet{
		ID:         UniqueID("ws"),
		ProfileID:  profileID,
		Title:      title,
		LastEdited: lastEdited,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

// NewTestSession creates an unexpired session for userID.
func NewTestSession(t testing.TB, userID string) *model.Session {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	return &model.Session{
		ID:        ulid.Make().String(),
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
}
