package biz

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamNameTaken         = errors.New("team name already registered")
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchAlreadyCompleted = errors.New("match already completed")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrInvalidPassword       = errors.New("invalid password")
	ErrInvalidJWT            = errors.New("invalid jwt token")
	ErrAdminNotConfigured    = errors.New("admin sign-in not configured")
	ErrInternal              = errors.New("server internal error, please try again later")
)

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
