package errors

import "errors"

// Exit codes returned by the hostctl binary. 6 is unused.
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitValidationError   = 2
	ExitConnectivityError = 3
	ExitPermissionDenied  = 4
	ExitNotFound          = 5
	ExitTimeout           = 7
)

// exitCodes is checked in order; the first sentinel in the chain wins.
var exitCodes = []struct {
	sentinel error
	code     int
}{
	{ErrValidation, ExitValidationError},
	{ErrConnectivity, ExitConnectivityError},
	{ErrPermission, ExitPermissionDenied},
	{ErrNotFound, ExitNotFound},
	{ErrTimeout, ExitTimeout},
}

// ExitError carries the exit code for an error returned from a command.
type ExitError struct {
	Err  error
	Code int
	// Printed is set when the command already reported Err to the user.
	Printed bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError maps err to a process exit code. An ExitError in the
// chain wins over sentinels.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	for _, ec := range exitCodes {
		if errors.Is(err, ec.sentinel) {
			return ec.code
		}
	}
	return ExitGeneralError
}
