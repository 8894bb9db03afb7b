package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("not allowed")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInactiveReward     = errors.New("reward is not active")
	ErrOutOfStock         = errors.New("reward is out of stock")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// backend classifies a GORM error. Record-not-found becomes ErrNotFound for
// what; domain errors pass through; everything else is a backend failure.
func backend(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(what)
	case isDomain(err):
		return err
	default:
		return fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, what, err)
	}
}

func isDomain(err error) bool {
	for _, target := range []error{
		ErrValidation, ErrForbidden, ErrNotFound, ErrInsufficientPoints,
		ErrInactiveReward, ErrOutOfStock, ErrBackendUnavailable,
		ErrEmailTaken, ErrInvalidCredentials, ErrInvalidToken,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
