// issue-session creates (or reuses) a local user, ensures it has a teacher
// profile, and prints a signed session token for it. Development only; in
// production sessions come from the sign-in flow.
//
//	go run scripts/issue-session.go -email teacher@worksheesh.local -seed 3
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"

	"github.com/worksheesh/worksheesh/internal/auth"
	"github.com/worksheesh/worksheesh/internal/cache"
	"github.com/worksheesh/worksheesh/internal/model"
	"github.com/worksheesh/worksheesh/internal/repository"
)

type output struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Cookie    string    `json:"cookie"`
}

func main() {
	_ = godotenv.Load()

	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		redisURL    = flag.String("redis-url", os.Getenv("REDIS_URL"), "Redis connection string")
		secret      = flag.String("secret", os.Getenv("SESSION_SECRET"), "Session signing secret")
		cookieName  = flag.String("cookie-name", envOr("SESSION_COOKIE_NAME", "worksheesh_session"), "Session cookie name")
		email       = flag.String("email", "teacher@worksheesh.local", "User email")
		name        = flag.String("name", "Local Teacher", "User display name")
		ttl         = flag.Duration("ttl", 24*time.Hour, "Session lifetime")
		seed        = flag.Int("seed", 0, "Number of sample worksheets to create")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" || *redisURL == "" || *secret == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL, REDIS_URL and SESSION_SECRET are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repository.Migrate(ctx, *databaseURL); err != nil {
		fail("migrate", err)
	}

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fail("connect database", err)
	}
	defer repo.Close()

	sessions, err := cache.New(ctx, *redisURL)
	if err != nil {
		fail("connect redis", err)
	}
	defer sessions.Close()

	user, err := repo.GetOrCreateUser(ctx, &model.User{
		ID:        ulid.Make().String(),
		Email:     *email,
		Name:      *name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		fail("ensure user", err)
	}

	profile, err := ensureProfile(ctx, repo, user.ID)
	if err != nil {
		fail("ensure profile", err)
	}

	for i := 1; i <= *seed; i++ {
		edited := time.Now().UTC().Add(-time.Duration(i) * time.Hour)
		ws := &model.Worksheet{
			ID:         ulid.Make().String(),
			ProfileID:  profile.ID,
			Title:      fmt.Sprintf("Sample Worksheet %d", i),
			LastEdited: &edited,
			CreatedAt:  edited,
		}
		if err := repo.CreateWorksheet(ctx, ws); err != nil {
			fail("seed worksheet", err)
		}
	}

	keys, err := auth.DeriveKeys(*secret)
	if err != nil {
		fail("derive keys", err)
	}
	token, session, err := auth.NewSigner(keys, *ttl).Issue(user.ID)
	if err != nil {
		fail("issue session", err)
	}
	if err := sessions.PutSession(ctx, session); err != nil {
		fail("store session", err)
	}

	out := output{
		UserID:    user.ID,
		Email:     user.Email,
		SessionID: session.ID,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Cookie:    *cookieName + "=" + token,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Token)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func ensureProfile(ctx context.Context, repo *repository.Repository, userID string) (*model.TeacherProfile, error) {
	profile, err := repo.GetTeacherProfileByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, err
	}

	profile = &model.TeacherProfile{
		ID:        ulid.Make().String(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateTeacherProfile(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrProfileExists) {
			return repo.GetTeacherProfileByUserID(ctx, userID)
		}
		return nil, err
	}
	return profile, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
