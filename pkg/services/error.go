package services

import (
	"errors"
	"net/http"
)

var (
	ErrFileNotFound       = errors.New("file not found")
	ErrNotOwner           = errors.New("access denied: you are not the owner of this file")
	ErrAccessDenied       = errors.New("access denied")
	ErrAuthRequired       = errors.New("authentication required")
	ErrNotRecipient       = errors.New("this share token was not issued for your account")
	ErrShareTokenInvalid  = errors.New("invalid or expired share token")
	ErrUserExists         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// apiError pairs a service failure with the HTTP status it maps to.
// Malformed and expired share tokens both surface as ErrShareTokenInvalid so
// the boundary never leaks which half failed; the distinction stays in logs.
type apiError struct {
	err  error
	code int
}

func (e *apiError) Error() string {
	return e.err.Error()
}

func (e *apiError) Unwrap() error {
	return e.err
}

func (e *apiError) Code() int {
	if e.code == 0 {
		return http.StatusInternalServerError
	}
	return e.code
}

func newError(code int, err error) *apiError {
	return &apiError{err: err, code: code}
}

// HTTPStatus maps a service error to its response status. Unknown errors are
// internal failures and collapse to 500.
func HTTPStatus(err error) int {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.Code()
	}
	return http.StatusInternalServerError
}

// IsInternal reports whether the error should be hidden behind a generic
// message at the boundary.
func IsInternal(err error) bool {
	return HTTPStatus(err) == http.StatusInternalServerError
}
