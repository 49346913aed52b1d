package auth

import (
	"errors"

	"tasklist/app/apperrors"
)

var (
	// ErrNotAuthenticated means no session is stored; the user must sign in.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired means the session ran out and cannot be refreshed.
	ErrSessionExpired = errors.New("session expired")
)

func authError(message string, cause error) error {
	return apperrors.NewAuthError(message, cause)
}
