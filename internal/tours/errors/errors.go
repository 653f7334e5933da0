package errors

import "errors"

var (
	ErrNotFound = errors.New("tour not found")

	ErrTypeNotFound = errors.New("tour type not found")

	ErrInvalidID = errors.New("invalid tour ID format")
)
