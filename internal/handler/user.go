package handler

import (
	"log/slog"
	"net/http"

	"github.com/worksheesh/worksheesh/internal/auth"
	"github.com/worksheesh/worksheesh/internal/handler/dto"
)

// UserHandler handles HTTP requests for the signed-in user's account.
type UserHandler struct {
	svc    UserAccounts
	cookie CookieConfig
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserAccounts, cookie CookieConfig, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		cookie: cookie,
		logger: logger,
	}
}

// Me handles GET /api/v1/users/me.
// Responds with null when the account no longer exists.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	user, err := h.svc.GetCurrentUser(r.Context(), session)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Delete handles DELETE /api/v1/users/me.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), session); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.cookie.clear(w)
	w.WriteHeader(http.StatusNoContent)
}
