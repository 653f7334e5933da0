package validator

import (
	"tourbook/pkg/logger"
	"tourbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type UserValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	return &UserValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *UserValidator) Validate(user *model.User) error {
	return v.validate.Struct(user)
}

func (v *UserValidator) ValidateUpdate(update *model.UserUpdate) error {
	return v.validate.Struct(update)
}

func (v *UserValidator) ValidateStatusUpdate(update *model.UserStatusUpdate) error {
	return v.validate.Struct(update)
}
