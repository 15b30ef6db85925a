package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/worksheesh/worksheesh/internal/auth"
	"github.com/worksheesh/worksheesh/internal/handler/dto"
)

// WorksheetHandler handles HTTP requests for worksheet operations.
type WorksheetHandler struct {
	svc     Worksheets
	baseURL string
	logger  *slog.Logger
}

// NewWorksheetHandler creates a new WorksheetHandler.
func NewWorksheetHandler(svc Worksheets, baseURL string, logger *slog.Logger) *WorksheetHandler {
	return &WorksheetHandler{
		svc:     svc,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// List handles GET /api/v1/worksheets.
func (h *WorksheetHandler) List(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	summaries, err := h.svc.GetWorksheets(r.Context(), session)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToWorksheetListResponse(summaries, h.baseURL))
}

// Create handles POST /api/v1/worksheets.
func (h *WorksheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	ws, err := h.svc.CreateWorksheet(r.Context(), session)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("worksheet_created", "worksheet_id", ws.ID, "user_id", session.UserID)

	w.Header().Set("Location", "/worksheets/"+ws.ID)
	writeJSON(w, http.StatusCreated, dto.ToWorksheetResponse(ws.Summary(), h.baseURL))
}
