package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/worksheesh/worksheesh/internal/model"
)

// ErrInvalidToken indicates a session token failed verification.
var ErrInvalidToken = errors.New("invalid session token")

// Claims are the JWT claims carried by a session token.
// The subject is the user ID.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Signer issues and verifies session tokens.
type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewSigner creates a Signer using the derived signing key.
func NewSigner(keys *Keys, ttl time.Duration) *Signer {
	return &Signer{key: keys.signing, ttl: ttl, now: time.Now}
}

// Issue mints a new session for the user and its signed token.
func (s *Signer) Issue(userID string) (string, *model.Session, error) {
	if userID == "" {
		return "", nil, errors.New("issue session: empty user id")
	}

	now := s.now().UTC().Truncate(time.Second)
	session := &model.Session{
		ID:        ulid.Make().String(),
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	claims := Claims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	return token, session, nil
}

// Parse verifies the token signature and expiry and returns the session it names.
// The caller must still confirm the session has not been revoked.
func (s *Signer) Parse(token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	session := &model.Session{
		ID:     claims.SessionID,
		UserID: claims.Subject,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}

	return session, nil
}
