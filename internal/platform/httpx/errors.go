// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the boundary layer.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusFor maps an error to the status code reported to the caller.
// Anything that is not an auth or request-shape problem is a 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the error body using the status from StatusFor.
func RespondError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	Error(w, StatusFor(err), err.Error())
}
