package validator

import (
	"tourbook/pkg/logger"
	"tourbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type TourValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewTourValidator(log *logger.Logger) *TourValidator {
	return &TourValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *TourValidator) Validate(tour *model.Tour) error {
	return v.validate.Struct(tour)
}

func (v *TourValidator) ValidateUpdate(update *model.TourUpdate) error {
	return v.validate.Struct(update)
}

func (v *TourValidator) ValidateType(tourType *model.TourType) error {
	return v.validate.Struct(tourType)
}
