package service

import (
	"context"
	"errors"

	tourserrors "tourbook/internal/tours/errors"
	"tourbook/internal/tours/repository"
	"tourbook/internal/tours/validator"
	"tourbook/pkg/config"
	apperrors "tourbook/pkg/errors"
	"tourbook/pkg/model"
	"tourbook/pkg/query"

	"go.mongodb.org/mongo-driver/bson"
)

type TourService interface {
	CreateTour(ctx context.Context, tour *model.Tour) (*model.Tour, error)
	GetTourByID(ctx context.Context, id string) (*model.Tour, error)
	UpdateTour(ctx context.Context, id string, update *model.TourUpdate) (*model.Tour, error)
	DeleteTour(ctx context.Context, id string) error
	GetAllTours(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error)
}

type tourService struct {
	repo      repository.TourRepository
	validator *validator.TourValidator
	cfg       *config.Config
}

func NewTourService(repo repository.TourRepository, tourValidator *validator.TourValidator, cfg *config.Config) TourService {
	return &tourService{
		repo:      repo,
		validator: tourValidator,
		cfg:       cfg,
	}
}

func (s *tourService) CreateTour(ctx context.Context, tour *model.Tour) (*model.Tour, error) {
	if err := s.validator.Validate(tour); err != nil {
		s.cfg.Log.Warn("Tour validation failed", "title", tour.Title, "error", err)
		return nil, apperrors.Validation("Tour validation failed", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByTitle(ctx, tour.Title)
	if err != nil && !errors.Is(err, tourserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check tour title", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("A tour with this title already exists")
	}

	if err := s.repo.Create(ctx, tour); err != nil {
		s.cfg.Log.Error("Failed to create tour", "title", tour.Title, "error", err)
		return nil, apperrors.Internal("Failed to create tour", err)
	}

	s.cfg.Log.Info("Tour created", "id", tour.ID, "title", tour.Title)
	return tour, nil
}

func (s *tourService) GetTourByID(ctx context.Context, id string) (*model.Tour, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Tour ID cannot be empty")
	}

	tour, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapTourError(err, id)
	}
	return tour, nil
}

// UpdateTour merges the provided fields into the stored tour. A title change
// is re-checked for uniqueness before the write.
func (s *tourService) UpdateTour(ctx context.Context, id string, update *model.TourUpdate) (*model.Tour, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Tour ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Tour update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Tour update validation failed", map[string]any{"error": err.Error()})
	}

	tour, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapTourError(err, id)
	}

	if update.Title != "" && update.Title != tour.Title {
		existing, err := s.repo.FindByTitle(ctx, update.Title)
		if err != nil && !errors.Is(err, tourserrors.ErrNotFound) {
			return nil, apperrors.Internal("Failed to check tour title", err)
		}
		if existing != nil {
			return nil, apperrors.Conflict("A tour with this title already exists")
		}
		tour.Title = update.Title
	}

	if update.Description != "" {
		tour.Description = update.Description
	}
	if update.Location != "" {
		tour.Location = update.Location
	}
	if update.CostFrom != nil {
		tour.CostFrom = *update.CostFrom
	}
	if update.StartDate != nil {
		tour.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		tour.EndDate = *update.EndDate
	}
	if update.MaxGuest != nil {
		tour.MaxGuest = *update.MaxGuest
	}
	if update.TourType != "" {
		tour.TourType = update.TourType
	}
	if update.Division != "" {
		tour.Division = update.Division
	}

	if err := s.repo.Update(ctx, id, tour); err != nil {
		return nil, mapTourError(err, id)
	}

	s.cfg.Log.Info("Tour updated", "id", id)
	return tour, nil
}

func (s *tourService) DeleteTour(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Tour ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapTourError(err, id)
	}

	s.cfg.Log.Info("Tour deleted", "id", id)
	return nil
}

func (s *tourService) GetAllTours(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error) {
	docs, meta, err := s.repo.List(ctx, raw)
	if err != nil {
		s.cfg.Log.Error("Failed to list tours", "error", err)
		return nil, query.Meta{}, apperrors.Internal("Failed to retrieve tours", err)
	}
	return docs, meta, nil
}

func mapTourError(err error, id string) error {
	switch {
	case errors.Is(err, tourserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Tour", id)
	case errors.Is(err, tourserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid tour ID format")
	default:
		return apperrors.Internal("Tour operation failed", err)
	}
}
