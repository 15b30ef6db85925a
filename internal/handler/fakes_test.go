package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/worksheesh/worksheesh/internal/auth"
	"github.com/worksheesh/worksheesh/internal/model"
	"github.com/worksheesh/worksheesh/internal/service"
	"github.com/worksheesh/worksheesh/internal/view"
)

type fakeUsers struct {
	user      *model.User
	getErr    error
	deleteErr error
	deleted   []string
}

func (f *fakeUsers) GetCurrentUser(_ context.Context, session *model.Session) (*model.User, error) {
	if !session.Valid() {
		return nil, service.ErrUnauthorized
	}
	return f.user, f.getErr
}

func (f *fakeUsers) Delete(_ context.Context, session *model.Session) error {
	if !session.Valid() {
		return service.ErrUnauthorized
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, session.UserID)
	return nil
}

type fakeWorksheets struct {
	list      []model.WorksheetSummary
	listErr   error
	created   *model.Worksheet
	createErr error
}

func (f *fakeWorksheets) GetWorksheets(_ context.Context, session *model.Session) ([]model.WorksheetSummary, error) {
	if !session.Valid() {
		return nil, service.ErrUnauthorized
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.list == nil {
		return []model.WorksheetSummary{}, nil
	}
	return f.list, nil
}

func (f *fakeWorksheets) CreateWorksheet(_ context.Context, session *model.Session) (*model.Worksheet, error) {
	if !session.Valid() {
		return nil, service.ErrUnauthorized
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created == nil {
		return nil, service.ErrCreateNotImplemented
	}
	return f.created, nil
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked []string
	err     error
}

func (f *fakeRevoker) RevokeSession(_ context.Context, session *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, session.ID)
	return f.err
}

type fakeCSRF struct{}

func (fakeCSRF) CSRFToken(sessionID string) string {
	return "csrf-" + sessionID
}

type failingRenderer struct{}

func (failingRenderer) RenderMyWorksheets(io.Writer, *view.MyWorksheetsPage) error {
	return errors.New("template exploded")
}

func testSession() *model.Session {
	return &model.Session{ID: "sess-1", UserID: "user-1"}
}

// withSession returns a request carrying session in its context.
func withSession(r *http.Request, session *model.Session) *http.Request {
	if session == nil {
		return r
	}
	return r.WithContext(auth.ContextWithSession(r.Context(), session))
}

func newRequest(method, target string, session *model.Session) *http.Request {
	return withSession(httptest.NewRequest(method, target, nil), session)
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
