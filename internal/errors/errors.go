package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountLocked        = errors.New("account temporarily locked")
	ErrUsernameTaken        = errors.New("username already in use")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidRole          = errors.New("invalid role")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token revoked")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")

	ErrPatientNotFound     = errors.New("patient not found")
	ErrDocumentInUse       = errors.New("document already registered")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrRecordNotFound      = errors.New("medical record not found")
)

// RemainingAttemptsError is returned on a failed password attempt so callers
// can tell the user how many tries are left before the account locks.
// It unwraps to ErrInvalidCredentials.
type RemainingAttemptsError struct {
	Remaining int
}

func (e *RemainingAttemptsError) Error() string {
	return fmt.Sprintf("invalid credentials (%d attempts remaining)", e.Remaining)
}

func (e *RemainingAttemptsError) Unwrap() error {
	return ErrInvalidCredentials
}

// PolicyViolationError carries the first password-policy rule a candidate
// password failed.
type PolicyViolationError struct {
	Rule    string
	Message string
}

func (e *PolicyViolationError) Error() string {
	return e.Message
}
