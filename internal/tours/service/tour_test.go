package service

import (
	"context"
	"errors"
	"testing"

	tourserrors "tourbook/internal/tours/errors"
	"tourbook/internal/tours/validator"
	"tourbook/pkg/config"
	apperrors "tourbook/pkg/errors"
	"tourbook/pkg/logger"
	"tourbook/pkg/model"
	"tourbook/pkg/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type mockTourRepo struct {
	createFn      func(ctx context.Context, tour *model.Tour) error
	findByIDFn    func(ctx context.Context, id string) (*model.Tour, error)
	findByTitleFn func(ctx context.Context, title string) (*model.Tour, error)
	updateFn      func(ctx context.Context, id string, tour *model.Tour) error
	deleteFn      func(ctx context.Context, id string) error
}

func (m *mockTourRepo) Create(ctx context.Context, tour *model.Tour) error {
	return m.createFn(ctx, tour)
}

func (m *mockTourRepo) FindByID(ctx context.Context, id string) (*model.Tour, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockTourRepo) FindCostByID(context.Context, string) (*model.Tour, error) {
	return nil, errors.New("not implemented")
}

func (m *mockTourRepo) FindByTitle(ctx context.Context, title string) (*model.Tour, error) {
	return m.findByTitleFn(ctx, title)
}

func (m *mockTourRepo) Update(ctx context.Context, id string, tour *model.Tour) error {
	return m.updateFn(ctx, id, tour)
}

func (m *mockTourRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockTourRepo) List(context.Context, map[string]string) ([]bson.M, query.Meta, error) {
	return nil, query.Meta{}, errors.New("not implemented")
}

func (m *mockTourRepo) EnsureIndexes(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: "text"}),
	}
}

func newService(repo *mockTourRepo) TourService {
	cfg := testConfig()
	return NewTourService(repo, validator.NewTourValidator(cfg.Log), cfg)
}

func TestCreateTour(t *testing.T) {
	repo := &mockTourRepo{
		createFn: func(_ context.Context, tour *model.Tour) error {
			tour.ID = "507f1f77bcf86cd799439012"
			return nil
		},
		findByTitleFn: func(context.Context, string) (*model.Tour, error) {
			return nil, tourserrors.ErrNotFound
		},
	}

	svc := newService(repo)
	tour, err := svc.CreateTour(context.Background(), &model.Tour{
		Title:    "Sajek Valley",
		CostFrom: 100,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, tour.ID)
}

func TestCreateTourDuplicateTitle(t *testing.T) {
	repo := &mockTourRepo{
		findByTitleFn: func(context.Context, string) (*model.Tour, error) {
			return &model.Tour{Title: "Sajek Valley"}, nil
		},
	}

	svc := newService(repo)
	_, err := svc.CreateTour(context.Background(), &model.Tour{
		Title:    "Sajek Valley",
		CostFrom: 100,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.AsAppError(err).Code)
}

func TestCreateTourRejectsZeroCost(t *testing.T) {
	svc := newService(&mockTourRepo{})
	_, err := svc.CreateTour(context.Background(), &model.Tour{Title: "Free Trip"})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)
}

func TestUpdateTourMergesFields(t *testing.T) {
	var saved *model.Tour
	newCost := 250.0
	repo := &mockTourRepo{
		findByIDFn: func(context.Context, string) (*model.Tour, error) {
			return &model.Tour{
				ID:       "507f1f77bcf86cd799439012",
				Title:    "Sajek Valley",
				Location: "Rangamati",
				CostFrom: 100,
			}, nil
		},
		findByTitleFn: func(context.Context, string) (*model.Tour, error) {
			return nil, tourserrors.ErrNotFound
		},
		updateFn: func(_ context.Context, _ string, tour *model.Tour) error {
			saved = tour
			return nil
		},
	}

	svc := newService(repo)
	tour, err := svc.UpdateTour(context.Background(), "507f1f77bcf86cd799439012", &model.TourUpdate{
		CostFrom: &newCost,
	})

	require.NoError(t, err)
	assert.Equal(t, 250.0, tour.CostFrom)
	// untouched fields survive the merge
	assert.Equal(t, "Sajek Valley", saved.Title)
	assert.Equal(t, "Rangamati", saved.Location)
}

func TestUpdateTourTitleConflict(t *testing.T) {
	repo := &mockTourRepo{
		findByIDFn: func(context.Context, string) (*model.Tour, error) {
			return &model.Tour{ID: "507f1f77bcf86cd799439012", Title: "Old Title", CostFrom: 100}, nil
		},
		findByTitleFn: func(context.Context, string) (*model.Tour, error) {
			return &model.Tour{ID: "507f1f77bcf86cd799439013", Title: "Taken Title"}, nil
		},
	}

	svc := newService(repo)
	_, err := svc.UpdateTour(context.Background(), "507f1f77bcf86cd799439012", &model.TourUpdate{
		Title: "Taken Title",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.AsAppError(err).Code)
}

func TestGetTourByIDNotFound(t *testing.T) {
	repo := &mockTourRepo{
		findByIDFn: func(context.Context, string) (*model.Tour, error) {
			return nil, tourserrors.ErrNotFound
		},
	}

	svc := newService(repo)
	_, err := svc.GetTourByID(context.Background(), "507f1f77bcf86cd799439012")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}

func TestDeleteTourInvalidID(t *testing.T) {
	repo := &mockTourRepo{
		deleteFn: func(context.Context, string) error {
			return tourserrors.ErrInvalidID
		},
	}

	svc := newService(repo)
	err := svc.DeleteTour(context.Background(), "garbage")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
}
