package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/worksheesh/worksheesh/internal/metrics"
	"github.com/worksheesh/worksheesh/internal/model"
)

// WorksheetStore is the persistence needed by WorksheetService.
type WorksheetStore interface {
	ListWorksheetSummariesByUser(ctx context.Context, userID string) ([]model.WorksheetSummary, error)
}

// WorksheetCreator creates an empty worksheet owned by the session user.
type WorksheetCreator interface {
	CreateWorksheet(ctx context.Context, session *model.Session) (*model.Worksheet, error)
}

// UnimplementedCreator is the default WorksheetCreator. Every call fails
// with ErrCreateNotImplemented.
type UnimplementedCreator struct{}

// CreateWorksheet always returns ErrCreateNotImplemented.
func (UnimplementedCreator) CreateWorksheet(context.Context, *model.Session) (*model.Worksheet, error) {
	return nil, ErrCreateNotImplemented
}

// WorksheetService lists and creates the signed-in teacher's worksheets.
type WorksheetService struct {
	store   WorksheetStore
	creator WorksheetCreator
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewWorksheetService creates a new WorksheetService.
// A nil creator falls back to UnimplementedCreator.
func NewWorksheetService(store WorksheetStore, creator WorksheetCreator, recorder metrics.Recorder, logger *slog.Logger) *WorksheetService {
	if creator == nil {
		creator = UnimplementedCreator{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorksheetService{
		store:   store,
		creator: creator,
		metrics: recorder,
		logger:  logger,
	}
}

// GetWorksheets returns the session user's worksheets, most recently edited
// first. A user without a teacher profile has none.
func (s *WorksheetService) GetWorksheets(ctx context.Context, session *model.Session) ([]model.WorksheetSummary, error) {
	if !session.Valid() {
		return nil, ErrUnauthorized
	}

	summaries, err := s.store.ListWorksheetSummariesByUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("list worksheets: %w", err)
	}
	if summaries == nil {
		summaries = []model.WorksheetSummary{}
	}

	s.metrics.ObserveWorksheetListSize(len(summaries))
	s.logger.DebugContext(ctx, "worksheets loaded",
		"user_id", session.UserID,
		"count", len(summaries),
	)

	return summaries, nil
}

// CreateWorksheet delegates to the configured WorksheetCreator.
func (s *WorksheetService) CreateWorksheet(ctx context.Context, session *model.Session) (*model.Worksheet, error) {
	if !session.Valid() {
		return nil, ErrUnauthorized
	}

	ws, err := s.creator.CreateWorksheet(ctx, session)
	if err != nil {
		if errors.Is(err, ErrCreateNotImplemented) {
			s.metrics.IncWorksheetCreate("not_implemented")
			return nil, ErrCreateNotImplemented
		}
		s.metrics.IncWorksheetCreate("failed")
		return nil, fmt.Errorf("create worksheet: %w", err)
	}

	s.metrics.IncWorksheetCreate("success")
	return ws, nil
}
