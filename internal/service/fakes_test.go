package service

import (
	"context"
	"sync"

	"github.com/worksheesh/worksheesh/internal/model"
	"github.com/worksheesh/worksheesh/internal/repository"
)

type fakeUserStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	findErr error
	delErr  error
	deleted []string
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.users[id], nil
}

func (s *fakeUserStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return s.delErr
	}
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type fakeRevoker struct {
	mu      sync.Mutex
	calls   []string
	revoked int64
	err     error
}

func (r *fakeRevoker) RevokeUserSessions(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, userID)
	return r.revoked, r.err
}

type fakeWorksheetStore struct {
	byUser map[string][]model.WorksheetSummary
	err    error
	calls  []string
}

func (s *fakeWorksheetStore) ListWorksheetSummariesByUser(_ context.Context, userID string) ([]model.WorksheetSummary, error) {
	s.calls = append(s.calls, userID)
	if s.err != nil {
		return nil, s.err
	}
	return s.byUser[userID], nil
}

type fakeCreator struct {
	ws  *model.Worksheet
	err error
}

func (c *fakeCreator) CreateWorksheet(context.Context, *model.Session) (*model.Worksheet, error) {
	return c.ws, c.err
}

func testSession(userID string) *model.Session {
	return &model.Session{ID: "sess-" + userID, UserID: userID}
}
