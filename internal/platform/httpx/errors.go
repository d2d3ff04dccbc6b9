package httpx

import (
	"errors"
	"net/http"

	"github.com/schooladmin/schooladmin/internal/shared"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicate), errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrUnauthorized), errors.Is(err, shared.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RespondError maps err to a failure envelope. Errors without a client message,
// including every storage failure, are reported with fallback.
func RespondError(w http.ResponseWriter, err error, fallback string) {
	Failure(w, StatusFor(err), shared.UserSafeMessage(err, fallback))
}
