package clients

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized marks a 401 from the API: the token is missing,
	// expired or invalid.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound marks a 404 from the API.
	ErrNotFound = errors.New("not found")
)

// APIError carries the HTTP status and the backend's detail message for a
// non-2xx response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// Unwrap maps well-known statuses onto sentinel errors so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}
