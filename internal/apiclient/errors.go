package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	oerrors "github.com/opmodel/hostctl/internal/errors"
)

// Error is a failed backend request. Status is zero when the request never
// got a response.
type Error struct {
	Method  string
	URL     string
	Status  int
	Message string
	// Cause is the transport error when Status is zero.
	Cause error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("%s %s: HTTP %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.Status, e.Message)
}

// Unwrap exposes the sentinel matching the status and the transport cause.
func (e *Error) Unwrap() []error {
	var errs []error
	switch {
	case e.Status == 0:
		errs = append(errs, oerrors.ErrConnectivity)
	case e.Status == http.StatusNotFound:
		errs = append(errs, oerrors.ErrNotFound)
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		errs = append(errs, oerrors.ErrPermission)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsPermission reports whether err is a backend 401 or 403.
func IsPermission(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// errorBody is the backend's JSON error envelope.
type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
