package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Transport errors (NET-001 to NET-099)
	ErrCodeNetUnreachable ErrorCode = "NET-001"
	ErrCodeNetBadResponse ErrorCode = "NET-002"
	ErrCodeNetTimeout     ErrorCode = "NET-003"

	// API errors (API-001 to API-099)
	ErrCodeAPIBadRequest   ErrorCode = "API-001"
	ErrCodeAPIUnauthorized ErrorCode = "API-002"
	ErrCodeAPIForbidden    ErrorCode = "API-003"
	ErrCodeAPINotFound     ErrorCode = "API-004"
	ErrCodeAPIServer       ErrorCode = "API-005"
	ErrCodeAPIUnknown      ErrorCode = "API-006"

	// Cache errors (CACHE-001 to CACHE-099)
	ErrCodeCacheMiss          ErrorCode = "CACHE-001"
	ErrCodeCacheTypeMismatch  ErrorCode = "CACHE-002"
	ErrCodeCacheMutationFault ErrorCode = "CACHE-003"

	// Interview errors (POLL-001 to POLL-099)
	ErrCodePollValidationFailed ErrorCode = "POLL-001"
	ErrCodePollAnswerRequired   ErrorCode = "POLL-002"
	ErrCodePollAnswerInvalid    ErrorCode = "POLL-003"
	ErrCodePollNotStarted       ErrorCode = "POLL-004"

	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeSessionLoadFailed ErrorCode = "SESSION-001"
	ErrCodeSessionSaveFailed ErrorCode = "SESSION-002"

	// Export errors (EXPORT-001 to EXPORT-099)
	ErrCodeExportWriteFailed ErrorCode = "EXPORT-001"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
)

// FormlaneError represents an enhanced error with code, suggestions, and documentation
type FormlaneError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *FormlaneError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FormlaneError) Unwrap() error {
	return e.Cause
}

// New creates a new FormlaneError
func New(code ErrorCode, message string) *FormlaneError {
	return &FormlaneError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new FormlaneError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *FormlaneError {
	return &FormlaneError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *FormlaneError) WithSuggestion(suggestion string) *FormlaneError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// Common error constructors for frequently used errors

// NewNetUnreachableError creates a transport-level failure error (status 0)
func NewNetUnreachableError(cause error) *FormlaneError {
	return Wrap(ErrCodeNetUnreachable, "could not reach the survey API", cause).
		WithSuggestion("Check your network connection").
		WithSuggestion("Verify FORMLANE_API_ORIGIN points at a running API")
}

// NewAPIStatusError creates an error for an HTTP 4xx/5xx response.
// The server-supplied message is kept verbatim when present.
func NewAPIStatusError(status int, serverMessage string) *FormlaneError {
	code := CodeForStatus(status)
	msg := serverMessage
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}

	err := New(code, msg)
	switch code {
	case ErrCodeAPIUnauthorized:
		err = err.WithSuggestion("Log in again; your session cookie may have expired")
	case ErrCodeAPIForbidden:
		err = err.WithSuggestion("Ask the survey owner for edit access")
	case ErrCodeAPINotFound:
		err = err.WithSuggestion("Check the survey hash; the resource may have been deleted")
	case ErrCodeAPIServer:
		err = err.WithSuggestion("Retry the action; the API reported an internal error")
	}
	return err
}

// CodeForStatus maps an HTTP status to the fixed error taxonomy.
// Any status >= 400 is a failure regardless of body shape.
func CodeForStatus(status int) ErrorCode {
	switch status {
	case 400:
		return ErrCodeAPIBadRequest
	case 401:
		return ErrCodeAPIUnauthorized
	case 403:
		return ErrCodeAPIForbidden
	case 404:
		return ErrCodeAPINotFound
	case 500:
		return ErrCodeAPIServer
	default:
		if status == 0 {
			return ErrCodeNetUnreachable
		}
		return ErrCodeAPIUnknown
	}
}

// NewPollAnswerRequiredError creates a required answer error
func NewPollAnswerRequiredError(question string) *FormlaneError {
	return New(ErrCodePollAnswerRequired, fmt.Sprintf("answer is required for: %s", question)).
		WithSuggestion("Provide a non-empty answer before finishing the poll")
}

// NewSessionLoadError creates a session-state read error
func NewSessionLoadError(path string, cause error) *FormlaneError {
	return Wrap(ErrCodeSessionLoadFailed, fmt.Sprintf("failed to read interview state: %s", path), cause).
		WithSuggestion("Remove the state file if it is corrupted; a new interview will start")
}
