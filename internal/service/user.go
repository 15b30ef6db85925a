package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/worksheesh/worksheesh/internal/metrics"
	"github.com/worksheesh/worksheesh/internal/model"
	"github.com/worksheesh/worksheesh/internal/repository"
)

// UserStore is the persistence needed by UserService.
type UserStore interface {
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// SessionRevoker ends every session of a user.
type SessionRevoker interface {
	RevokeUserSessions(ctx context.Context, userID string) (int64, error)
}

// UserService handles account operations for the signed-in user.
type UserService struct {
	store    UserStore
	sessions SessionRevoker
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, sessions SessionRevoker, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:    store,
		sessions: sessions,
		metrics:  recorder,
		logger:   logger,
	}
}

// GetCurrentUser returns the account of the session's user.
// It returns (nil, nil) when the account no longer exists.
func (s *UserService) GetCurrentUser(ctx context.Context, session *model.Session) (*model.User, error) {
	if !session.Valid() {
		return nil, ErrUnauthorized
	}

	user, err := s.store.FindUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}

	return user, nil
}

// Delete permanently removes the session user's account and signs the user
// out everywhere. Dependent worksheets are removed by the store.
func (s *UserService) Delete(ctx context.Context, session *model.Session) error {
	if !session.Valid() {
		return ErrUnauthorized
	}

	if err := s.store.DeleteUser(ctx, session.UserID); err != nil {
		s.metrics.IncAccountDeleteFailed()
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.metrics.IncAccountDeleted()

	// Revocation is best effort; the account is already gone.
	if s.sessions != nil {
		revoked, err := s.sessions.RevokeUserSessions(ctx, session.UserID)
		if err != nil {
			s.logger.Warn("failed to revoke sessions after account delete",
				"user_id", session.UserID,
				"error", err,
			)
		} else {
			s.logger.Info("account deleted",
				"user_id", session.UserID,
				"sessions_revoked", revoked,
			)
		}
	}

	return nil
}
