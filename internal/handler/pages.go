package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/worksheesh/worksheesh/internal/auth"
	"github.com/worksheesh/worksheesh/internal/model"
	"github.com/worksheesh/worksheesh/internal/service"
	"github.com/worksheesh/worksheesh/internal/view"
)

// myWorksheetsPath is the route of the worksheet list page.
const myWorksheetsPath = "/my-worksheets"

// PageRenderer renders the worksheet list page.
type PageRenderer interface {
	RenderMyWorksheets(w io.Writer, page *view.MyWorksheetsPage) error
}

// CSRFMinter issues CSRF tokens bound to a session.
type CSRFMinter interface {
	CSRFToken(sessionID string) string
}

// SessionRevoker ends a single session.
type SessionRevoker interface {
	RevokeSession(ctx context.Context, session *model.Session) error
}

// PageConfig holds the dependencies of PageHandler.
type PageConfig struct {
	Users      UserAccounts
	Worksheets Worksheets
	Renderer   PageRenderer
	CSRF       CSRFMinter
	Sessions   SessionRevoker
	Cookie     CookieConfig
	Origin     string
	Logger     *slog.Logger
}

// PageHandler serves the server-rendered pages and their form posts.
type PageHandler struct {
	cfg    PageConfig
	origin string
	logger *slog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(cfg PageConfig) *PageHandler {
	return &PageHandler{
		cfg:    cfg,
		origin: strings.TrimSuffix(cfg.Origin, "/"),
		logger: cfg.Logger,
	}
}

// MyWorksheets renders the worksheet list.
// GET /my-worksheets
func (h *PageHandler) MyWorksheets(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	worksheets, err := h.cfg.Worksheets.GetWorksheets(r.Context(), session)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		h.logger.Error("worksheet_list_failed", "error", err)
		http.Error(w, "Something went wrong loading your worksheets.", http.StatusInternalServerError)
		return
	}

	page := view.NewMyWorksheetsPage(
		h.origin,
		h.cfg.CSRF.CSRFToken(session.ID),
		r.URL.Query().Get("error"),
		worksheets,
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.cfg.Renderer.RenderMyWorksheets(w, page); err != nil {
		h.logger.Error("render_failed", "page", "my_worksheets", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// CreateWorksheet handles the "Create Worksheet" form.
// POST /worksheets
func (h *PageHandler) CreateWorksheet(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	ws, err := h.cfg.Worksheets.CreateWorksheet(r.Context(), session)
	if err != nil {
		if !errors.Is(err, service.ErrCreateNotImplemented) {
			h.logger.Error("worksheet_create_failed", "error", err)
		}
		h.redirectWithError(w, r, view.ErrorCreateUnavailable)
		return
	}

	http.Redirect(w, r, view.WorksheetPath(ws.ID), http.StatusSeeOther)
}

// DeleteAccount handles the "Delete Account" form.
// POST /account/delete
func (h *PageHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	err := h.cfg.Users.Delete(r.Context(), session)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrUserNotFound):
		// The account is already gone; only the session is left to end.
		h.logger.Warn("account_delete_missing_user", "user_id", session.UserID)
		h.revoke(r.Context(), session)
	default:
		h.logger.Error("account_delete_failed", "user_id", session.UserID, "error", err)
		h.redirectWithError(w, r, view.ErrorDeleteFailed)
		return
	}

	h.cfg.Cookie.clear(w)
	http.Redirect(w, r, h.origin+"/", http.StatusSeeOther)
}

// SignOut ends the current session.
// POST /signout
func (h *PageHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	h.revoke(r.Context(), session)
	h.cfg.Cookie.clear(w)

	http.Redirect(w, r, h.callbackTarget(r.FormValue("callbackUrl")), http.StatusSeeOther)
}

func (h *PageHandler) revoke(ctx context.Context, session *model.Session) {
	if h.cfg.Sessions == nil || !session.Valid() {
		return
	}
	if err := h.cfg.Sessions.RevokeSession(ctx, session); err != nil {
		h.logger.Error("session_revoke_failed", "session_id", session.ID, "error", err)
	}
}

func (h *PageHandler) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, myWorksheetsPath+"?error="+url.QueryEscape(code), http.StatusSeeOther)
}

// callbackTarget resolves a sign-out callback against the origin.
// Anything pointing off-origin falls back to the origin root.
func (h *PageHandler) callbackTarget(raw string) string {
	fallback := h.origin + "/"
	if raw == "" {
		return fallback
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fallback
	}

	if !u.IsAbs() {
		if u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
			return fallback
		}
		return h.origin + u.RequestURI()
	}

	origin, err := url.Parse(h.origin)
	if err != nil || u.Scheme != origin.Scheme || u.Host != origin.Host {
		return fallback
	}
	return u.String()
}
