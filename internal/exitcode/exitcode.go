package exitcode

import (
	stderrors "errors"
	"os"

	"github.com/formlane/formlane/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationError indicates local answer validation blocked an action
	ValidationError = 3

	// AuthError indicates an authentication or authorization failure
	AuthError = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// Interrupted indicates the user cancelled the run (Ctrl+C)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var fe *errors.FormlaneError
	if !stderrors.As(err, &fe) {
		return GeneralError
	}

	switch fe.Code {
	case errors.ErrCodeNetUnreachable, errors.ErrCodeNetBadResponse, errors.ErrCodeNetTimeout:
		return NetworkError
	case errors.ErrCodeAPIUnauthorized, errors.ErrCodeAPIForbidden:
		return AuthError
	case errors.ErrCodePollValidationFailed, errors.ErrCodePollAnswerRequired, errors.ErrCodePollAnswerInvalid:
		return ValidationError
	case errors.ErrCodeConfigInvalid:
		return UsageError
	default:
		return GeneralError
	}
}
