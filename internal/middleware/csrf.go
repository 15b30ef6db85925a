package middleware

import (
	"log/slog"
	"net/http"

	"github.com/worksheesh/worksheesh/internal/auth"
)

const (
	// CSRFFormField is the form field carrying the CSRF token.
	CSRFFormField = "csrf_token"
	// CSRFHeader is the header alternative to CSRFFormField.
	CSRFHeader = "X-CSRF-Token"
)

// CSRFVerifier checks a CSRF token against a session ID.
type CSRFVerifier interface {
	VerifyCSRFToken(sessionID, token string) bool
}

// CSRF rejects state-changing page requests whose token was not minted for
// the request's session. Safe methods pass through.
// Must be applied after Session and RequirePageSession.
func CSRF(verifier CSRFVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			session := auth.SessionFromContext(r.Context())
			token := r.Header.Get(CSRFHeader)
			if token == "" {
				token = r.PostFormValue(CSRFFormField)
			}

			if session == nil || token == "" || !verifier.VerifyCSRFToken(session.ID, token) {
				logger.Warn("csrf check failed",
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Bool("token_present", token != ""),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
