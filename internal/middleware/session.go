package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/worksheesh/worksheesh/internal/auth"
	"github.com/worksheesh/worksheesh/internal/cache"
	"github.com/worksheesh/worksheesh/internal/metrics"
	"github.com/worksheesh/worksheesh/internal/model"
)

// TokenParser verifies a session token and returns the session it names.
type TokenParser interface {
	Parse(token string) (*model.Session, error)
}

// SessionStore looks up live sessions.
type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger     *slog.Logger
	Parser     TokenParser
	Store      SessionStore
	CookieName string
	Metrics    metrics.Recorder
}

// Session resolves the session token carried by the request and attaches the
// session to the request context. Requests without a usable session pass
// through unchanged; RequireSession and RequirePageSession enforce presence.
//
// The token is read from "Authorization: Bearer <token>" first, then from the
// session cookie. A token is accepted only if its signature verifies, it has
// not expired, and the session it names still exists for the same user.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractSessionToken(r, cfg.CookieName)
			if token == "" {
				recorder.IncSessionRejected(metrics.ReasonMissing)
				next.ServeHTTP(w, r)
				return
			}

			session, reason, err := resolveSession(r.Context(), cfg, token)
			if session == nil {
				recorder.IncSessionRejected(reason)
				attrs := []any{
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				}
				if err != nil {
					attrs = append(attrs, slog.String("error", err.Error()))
					cfg.Logger.Error("session lookup failed", attrs...)
				} else {
					cfg.Logger.Warn("session rejected", attrs...)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveSession returns the live session for token, or the rejection reason.
// err is set only for infrastructure failures.
func resolveSession(ctx context.Context, cfg SessionConfig, token string) (*model.Session, string, error) {
	claimed, err := cfg.Parser.Parse(token)
	if err != nil {
		return nil, metrics.ReasonInvalid, nil
	}

	stored, err := cfg.Store.GetSession(ctx, claimed.ID)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return nil, metrics.ReasonRevoked, nil
		}
		return nil, metrics.ReasonError, err
	}

	if stored.UserID != claimed.UserID {
		return nil, metrics.ReasonMismatch, nil
	}

	return stored, "", nil
}

// RequireSession rejects API requests that carry no valid session with
// 401 Unauthorized. Must be applied after Session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.SessionFromContext(r.Context()) == nil {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePageSession redirects page requests without a valid session to the
// sign-in URL. The original path is passed along as callbackUrl.
// Must be applied after Session.
func RequirePageSession(signInURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.SessionFromContext(r.Context()) == nil {
				http.Redirect(w, r, signInRedirect(signInURL, r.URL.RequestURI()), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func signInRedirect(signInURL, callback string) string {
	u, err := url.Parse(signInURL)
	if err != nil {
		return signInURL
	}
	q := u.Query()
	q.Set("callbackUrl", callback)
	u.RawQuery = q.Encode()
	return u.String()
}

// extractSessionToken reads the session token from the Authorization header
// or the session cookie.
func extractSessionToken(r *http.Request, cookieName string) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
}
