package dto

import (
	"time"

	"github.com/worksheesh/worksheesh/internal/model"
	"github.com/worksheesh/worksheesh/internal/view"
)

// WorksheetResponse represents one worksheet in API responses.
type WorksheetResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	LastEdited *time.Time `json:"last_edited"`
}

// WorksheetListResponse represents the worksheet list.
type WorksheetListResponse struct {
	Worksheets []WorksheetResponse `json:"worksheets"`
	Count      int                 `json:"count"`
}

// ToWorksheetResponse converts a WorksheetSummary to WorksheetResponse DTO.
// URL matches the link the worksheet list page renders.
func ToWorksheetResponse(ws model.WorksheetSummary, baseURL string) WorksheetResponse {
	return WorksheetResponse{
		ID:         ws.ID,
		Title:      ws.Title,
		URL:        baseURL + view.WorksheetPath(ws.ID),
		LastEdited: ws.LastEdited,
	}
}

// ToWorksheetListResponse converts summaries to a WorksheetListResponse DTO.
func ToWorksheetListResponse(summaries []model.WorksheetSummary, baseURL string) *WorksheetListResponse {
	items := make([]WorksheetResponse, 0, len(summaries))
	for _, ws := range summaries {
		items = append(items, ToWorksheetResponse(ws, baseURL))
	}
	return &WorksheetListResponse{
		Worksheets: items,
		Count:      len(items),
	}
}
