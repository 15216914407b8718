package remote

import (
	"fmt"
	"net/http"

	"github.com/zeebo/errs"
)

// Error is the error class for remote backend failures.
var Error = errs.Class("remote store")

// RequestError describes a failed API request. The message is derived from
// the HTTP status so it can be shown to a user as-is.
type RequestError struct {
	Action Action
	Status int
	URL    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("api request failed (%s %s): %s", e.Action, e.URL, e.Message())
}

// Message maps the status code to a human-readable description.
func (e *RequestError) Message() string {
	switch e.Status {
	case http.StatusBadRequest:
		return "the annotation store did not understand the request"
	case http.StatusUnauthorized:
		return "you must be logged in to perform this operation"
	case http.StatusForbidden:
		return "you do not have permission to perform this operation"
	case http.StatusNotFound:
		return "the annotation store does not exist"
	case http.StatusInternalServerError:
		return "the annotation store is hitting bugs"
	default:
		return "unknown error"
	}
}

// transient reports whether a retry could plausibly succeed.
func transient(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
