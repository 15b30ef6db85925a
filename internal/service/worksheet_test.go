package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worksheesh/worksheesh/internal/metrics"
	"github.com/worksheesh/worksheesh/internal/model"
)

func TestWorksheetService_GetWorksheets(t *testing.T) {
	t.Parallel()

	edited := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	store := &fakeWorksheetStore{byUser: map[string][]model.WorksheetSummary{
		"u1": {
			{ID: "w1", Title: "Fractions", LastEdited: &edited},
			{ID: "w2", Title: "Decimals"},
		},
	}}
	recorder := metrics.NewInMemory()
	svc := NewWorksheetService(store, nil, recorder, nil)

	got, err := svc.GetWorksheets(context.Background(), testSession("u1"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "w1", got[0].ID)
	assert.Equal(t, "w2", got[1].ID)
	assert.Equal(t, []string{"u1"}, store.calls)

	snap := recorder.Snapshot()
	assert.Equal(t, uint64(1), snap.WorksheetListRenders)
	assert.Equal(t, uint64(2), snap.WorksheetListRowTotal)
}

func TestWorksheetService_GetWorksheets_NoneIsEmptySlice(t *testing.T) {
	t.Parallel()

	svc := NewWorksheetService(&fakeWorksheetStore{}, nil, nil, nil)

	got, err := svc.GetWorksheets(context.Background(), testSession("u1"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestWorksheetService_GetWorksheets_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("timeout")

	_, err := NewWorksheetService(&fakeWorksheetStore{}, nil, nil, nil).
		GetWorksheets(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = NewWorksheetService(&fakeWorksheetStore{err: boom}, nil, nil, nil).
		GetWorksheets(context.Background(), testSession("u1"))
	assert.ErrorIs(t, err, boom)
}

func TestWorksheetService_CreateWorksheet(t *testing.T) {
	t.Parallel()

	boom := errors.New("insert failed")
	created := &model.Worksheet{ID: "w9", ProfileID: "p1"}

	tests := []struct {
		name       string
		creator    WorksheetCreator
		session    *model.Session
		wantErr    error
		wantStatus string
	}{
		{"default stub", nil, testSession("u1"), ErrCreateNotImplemented, "not_implemented"},
		{"explicit stub", UnimplementedCreator{}, testSession("u1"), ErrCreateNotImplemented, "not_implemented"},
		{"creator failure", &fakeCreator{err: boom}, testSession("u1"), boom, "failed"},
		{"success", &fakeCreator{ws: created}, testSession("u1"), nil, "success"},
		{"no session", &fakeCreator{ws: created}, nil, ErrUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recorder := metrics.NewInMemory()
			svc := NewWorksheetService(&fakeWorksheetStore{}, tt.creator, recorder, nil)

			ws, err := svc.CreateWorksheet(context.Background(), tt.session)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, ws)
			} else {
				require.NoError(t, err)
				assert.Equal(t, created, ws)
			}

			if tt.wantStatus != "" {
				assert.Equal(t, uint64(1), recorder.Snapshot().WorksheetCreates[tt.wantStatus])
			}
		})
	}
}
