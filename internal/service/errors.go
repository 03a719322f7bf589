package service

import (
	"errors"

	"travelapi/internal/repository"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("resource not found")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrFileTooLarge       = errors.New("file too large")
	ErrReaderNil          = errors.New("reader is nil")
)

// translate maps repository sentinels onto service sentinels and passes anything else through.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrDuplicateEmail
	case errors.Is(err, repository.ErrDuplicateUsername):
		return ErrDuplicateUsername
	}
	return err
}
