package httpx

import (
	"net/http"

	"github.com/nkemjika/shortly/internal/errx"
)

// ErrorKindToStatus maps errx.Kind to HTTP status codes.
// Handlers use this for the common mappings and special-case the rest.
func ErrorKindToStatus(kind errx.Kind) int {
	switch kind {
	case errx.NotFound:
		return http.StatusNotFound
	case errx.Conflict:
		return http.StatusConflict
	case errx.Invalid:
		return http.StatusBadRequest
	case errx.Unavailable:
		return http.StatusServiceUnavailable
	case errx.Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKindToMessage maps errx.Kind to the short error string used in
// JSON error bodies.
func ErrorKindToMessage(kind errx.Kind) string {
	switch kind {
	case errx.NotFound:
		return "not found"
	case errx.Conflict:
		return "conflict"
	case errx.Invalid:
		return "invalid request"
	case errx.Unavailable:
		return "service unavailable"
	default:
		return "internal error"
	}
}
