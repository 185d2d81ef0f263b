package owui

import (
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the Open WebUI API.
type APIError struct {
	StatusCode int    // HTTP status code.
	Detail     string // Server-provided detail message, if any.
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("owui: api error: status %d", e.StatusCode)
	}

	return fmt.Sprintf("owui: api error: status %d: %s", e.StatusCode, e.Detail)
}

// IsNotFound reports whether the error is a 404 response.
func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// IsUnauthorized reports whether the error is a 401 response.
func (e *APIError) IsUnauthorized() bool { return e.StatusCode == http.StatusUnauthorized }
