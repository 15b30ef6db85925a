package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/worksheesh/worksheesh/internal/model"
)

// Common errors for teacher profile and worksheet operations.
var (
	ErrProfileNotFound = errors.New("teacher profile not found")
	ErrProfileExists   = errors.New("teacher profile already exists")
)

// CreateTeacherProfile inserts a teacher profile for a user.
func (r *Repository) CreateTeacherProfile(ctx context.Context, profile *model.TeacherProfile) error {
	query := `
		INSERT INTO teacher_profiles (id, user_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query, profile.ID, profile.UserID, profile.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrProfileExists
		}
		return fmt.Errorf("failed to create teacher profile: %w", err)
	}

	return nil
}

// GetTeacherProfileByUserID retrieves the profile owned by a user.
func (r *Repository) GetTeacherProfileByUserID(ctx context.Context, userID string) (*model.TeacherProfile, error) {
	query := `
		SELECT id, user_id, created_at
		FROM teacher_profiles
		WHERE user_id = $1
	`

	var profile model.TeacherProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get teacher profile: %w", err)
	}

	return &profile, nil
}

// CreateWorksheet inserts a worksheet owned by a teacher profile.
func (r *Repository) CreateWorksheet(ctx context.Context, ws *model.Worksheet) error {
	query := `
		INSERT INTO worksheets (id, profile_id, title, last_edited, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		ws.ID,
		ws.ProfileID,
		ws.Title,
		ws.LastEdited,
		ws.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create worksheet: %w", err)
	}

	return nil
}

// ListWorksheetSummariesByUser returns the worksheets of the teacher profile
// owned by userID, most recently edited first. Worksheets never edited sort
// last, newest first. A user without a profile has no worksheets.
func (r *Repository) ListWorksheetSummariesByUser(ctx context.Context, userID string) ([]model.WorksheetSummary, error) {
	query := `
		SELECT w.id, w.title, w.last_edited
		FROM worksheets w
		JOIN teacher_profiles p ON p.id = w.profile_id
		WHERE p.user_id = $1
		ORDER BY w.last_edited DESC NULLS LAST, w.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list worksheets: %w", err)
	}
	defer rows.Close()

	summaries := make([]model.WorksheetSummary, 0)
	for rows.Next() {
		var s model.WorksheetSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.LastEdited); err != nil {
			return nil, fmt.Errorf("failed to scan worksheet: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate worksheets: %w", err)
	}

	return summaries, nil
}
