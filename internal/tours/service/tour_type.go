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

type TourTypeService interface {
	CreateTourType(ctx context.Context, tourType *model.TourType) (*model.TourType, error)
	GetTourTypeByID(ctx context.Context, id string) (*model.TourType, error)
	UpdateTourType(ctx context.Context, id string, tourType *model.TourType) (*model.TourType, error)
	DeleteTourType(ctx context.Context, id string) error
	GetAllTourTypes(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error)
}

type tourTypeService struct {
	repo      repository.TourTypeRepository
	validator *validator.TourValidator
	cfg       *config.Config
}

func NewTourTypeService(repo repository.TourTypeRepository, tourValidator *validator.TourValidator, cfg *config.Config) TourTypeService {
	return &tourTypeService{
		repo:      repo,
		validator: tourValidator,
		cfg:       cfg,
	}
}

func (s *tourTypeService) CreateTourType(ctx context.Context, tourType *model.TourType) (*model.TourType, error) {
	if err := s.validator.ValidateType(tourType); err != nil {
		return nil, apperrors.Validation("Tour type validation failed", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByName(ctx, tourType.Name)
	if err != nil && !errors.Is(err, tourserrors.ErrTypeNotFound) {
		return nil, apperrors.Internal("Failed to check tour type name", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("A tour type with this name already exists")
	}

	if err := s.repo.Create(ctx, tourType); err != nil {
		s.cfg.Log.Error("Failed to create tour type", "name", tourType.Name, "error", err)
		return nil, apperrors.Internal("Failed to create tour type", err)
	}

	s.cfg.Log.Info("Tour type created", "id", tourType.ID, "name", tourType.Name)
	return tourType, nil
}

func (s *tourTypeService) GetTourTypeByID(ctx context.Context, id string) (*model.TourType, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Tour type ID cannot be empty")
	}

	tourType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapTourTypeError(err, id)
	}
	return tourType, nil
}

func (s *tourTypeService) UpdateTourType(ctx context.Context, id string, tourType *model.TourType) (*model.TourType, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Tour type ID cannot be empty")
	}
	if err := s.validator.ValidateType(tourType); err != nil {
		return nil, apperrors.Validation("Tour type validation failed", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByName(ctx, tourType.Name)
	if err != nil && !errors.Is(err, tourserrors.ErrTypeNotFound) {
		return nil, apperrors.Internal("Failed to check tour type name", err)
	}
	if existing != nil && existing.ID != id {
		return nil, apperrors.Conflict("A tour type with this name already exists")
	}

	if err := s.repo.Update(ctx, id, tourType); err != nil {
		return nil, mapTourTypeError(err, id)
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapTourTypeError(err, id)
	}

	s.cfg.Log.Info("Tour type updated", "id", id)
	return updated, nil
}

func (s *tourTypeService) DeleteTourType(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Tour type ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapTourTypeError(err, id)
	}

	s.cfg.Log.Info("Tour type deleted", "id", id)
	return nil
}

func (s *tourTypeService) GetAllTourTypes(ctx context.Context, raw map[string]string) ([]bson.M, query.Meta, error) {
	docs, meta, err := s.repo.List(ctx, raw)
	if err != nil {
		s.cfg.Log.Error("Failed to list tour types", "error", err)
		return nil, query.Meta{}, apperrors.Internal("Failed to retrieve tour types", err)
	}
	return docs, meta, nil
}

func mapTourTypeError(err error, id string) error {
	switch {
	case errors.Is(err, tourserrors.ErrTypeNotFound):
		return apperrors.NotFoundWithID("Tour type", id)
	case errors.Is(err, tourserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid tour type ID format")
	default:
		return apperrors.Internal("Tour type operation failed", err)
	}
}
