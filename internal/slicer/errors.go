package slicer

import "fmt"

// ErrorKind classifies an Error. Only InvalidRequest, BackendUnavailable,
// and UnknownFormat ever escape Planner.Plan / Packager.Render as a Go
// error; StrategyFailure and BudgetExceeded are caught internally and
// surfaced as Warning values instead.
type ErrorKind int

const (
	// InvalidRequest means the SliceRequest itself is malformed: empty
	// task, non-positive budget, empty or relative repo root, negative
	// MaxResults, or an unknown intensity.
	InvalidRequest ErrorKind = iota

	// BackendUnavailable means no usable RepoBackend exists: none was
	// passed to the planner, or the repository root could not be opened.
	// Backend call failures inside a strategy become warnings instead.
	BackendUnavailable

	// StrategyFailure means a single strategy could not complete. Never
	// returned as an error from a public entry point; always downgraded to
	// a Warning on the plan so the remaining strategies still run.
	StrategyFailure

	// BudgetExceeded means the tree and sidecars reserved ahead of
	// selection already exceed BudgetTokens. Never returned as an error;
	// the selector records a budget_exceeded Warning and drops sidecars.
	BudgetExceeded

	// UnknownFormat means the packager was asked to render an unsupported
	// output format.
	UnknownFormat
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case InvalidRequest:
		return "invalid_request"
	case BackendUnavailable:
		return "backend_unavailable"
	case StrategyFailure:
		return "strategy_failure"
	case BudgetExceeded:
		return "budget_exceeded"
	case UnknownFormat:
		return "unknown_format"
	default:
		return "unknown"
	}
}

// Error is the slicer engine's single structured error type. It carries a
// Kind for programmatic dispatch (CLI exit codes, MCP error payloads) and
// wraps an optional underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError constructs an Error without a wrapped cause.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewWrappedError constructs an Error wrapping an underlying cause.
func NewWrappedError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// NewInvalidRequest is a convenience constructor for the most common error
// kind produced while validating a SliceRequest.
func NewInvalidRequest(message string) *Error {
	return NewError(InvalidRequest, message)
}
