package circle

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned when the platform responds with a non-2xx status.
type APIError struct {
	// Status is the HTTP status code returned by the platform
	Status int

	// Code is the platform-specific error code, when present
	Code int

	// Message is the human-readable error message from the response body
	Message string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("circle api error (status %d, code %d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("circle api error (status %d): %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a platform 404.
//
// A 404 from GetUser is an expected outcome (the user has not been
// provisioned yet) and triggers auto-provisioning rather than an error
// response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
