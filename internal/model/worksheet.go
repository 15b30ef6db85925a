package model

import "time"

// lastEditedLayout is the display format for the "Last Edited" label.
const lastEditedLayout = "Jan 2, 2006 15:04"

// TeacherProfile links a user account to the worksheets it owns.
// Every signed-in teacher is meant to have exactly one profile; profiles are
// created by the external onboarding flow, not lazily by this service.
type TeacherProfile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Worksheet is a document owned by a teacher profile.
type Worksheet struct {
	ID         string     `json:"id"`
	ProfileID  string     `json:"profile_id"`
	Title      string     `json:"title"`
	LastEdited *time.Time `json:"last_edited,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Summary returns the list-view projection of the worksheet.
func (w *Worksheet) Summary() WorksheetSummary {
	return WorksheetSummary{
		ID:         w.ID,
		Title:      w.Title,
		LastEdited: w.LastEdited,
	}
}

// WorksheetSummary is the read-only row shown on the worksheet list.
type WorksheetSummary struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	LastEdited *time.Time `json:"last_edited"`
}

// LastEditedLabel formats LastEdited for display.
// A worksheet that was never edited yields an empty string.
func (s WorksheetSummary) LastEditedLabel() string {
	if s.LastEdited == nil || s.LastEdited.IsZero() {
		return ""
	}
	return s.LastEdited.UTC().Format(lastEditedLayout)
}
