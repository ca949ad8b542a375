package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for any non-2xx response from the backend
type APIError struct {
	StatusCode int
	Body       string
	Endpoint   string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("backend %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsUnauthorized reports whether err is a 401 or 403 from the backend
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
