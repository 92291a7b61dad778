package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider operations.
var (
	// ErrInvalidInput indicates a caller error detected before any backend I/O.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateTool indicates two tools in one call share a name.
	// It wraps ErrInvalidInput.
	ErrDuplicateTool = fmt.Errorf("%w: duplicate tool name", ErrInvalidInput)

	// ErrUnavailable indicates the backend could not be reached.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrRejected indicates the backend refused the request.
	ErrRejected = errors.New("backend rejected request")

	// ErrRateLimited indicates the request was rate limited. It wraps ErrRejected.
	ErrRateLimited = fmt.Errorf("%w: rate limited", ErrRejected)

	// ErrUnauthorized indicates missing or invalid credentials. It wraps ErrRejected.
	ErrUnauthorized = fmt.Errorf("%w: unauthorized", ErrRejected)

	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("request timed out")

	// ErrMapping indicates the backend response could not be mapped to a Decision.
	ErrMapping = errors.New("cannot map backend response to decision")

	// ErrUnknownTool indicates the model named a tool absent from the supplied
	// set. It wraps ErrMapping.
	ErrUnknownTool = fmt.Errorf("%w: unknown tool", ErrMapping)

	// ErrStreamConsumed indicates a second traversal of a single-pass Stream.
	ErrStreamConsumed = errors.New("stream already consumed")

	// ErrUnknownProvider indicates the requested provider is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnhandledDecision indicates a Decision variant the caller does not know.
	ErrUnhandledDecision = errors.New("unhandled decision variant")
)

// Error wraps provider errors with context.
type Error struct {
	Provider  string // Provider name ("echo", "scripted", ...)
	Op        string // Operation that failed ("complete", "stream")
	Err       error  // Underlying error
	Retryable bool   // Whether the error is likely transient
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new provider error.
func NewError(provider, op string, err error, retryable bool) *Error {
	return &Error{
		Provider:  provider,
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable checks if an error is likely transient and worth retrying.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}

	// Check for known retryable sentinel errors
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsInvalidInput checks if an error is a caller error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMappingError checks if the backend answered but the answer was unusable.
func IsMappingError(err error) bool {
	return errors.Is(err, ErrMapping)
}

// IsRejection checks if the backend refused the request.
func IsRejection(err error) bool {
	return errors.Is(err, ErrRejected)
}

// IsAuthError checks if an error is authentication-related.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
