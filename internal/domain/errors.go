package domain

import "fmt"

// ValidationError signals that a tool handler rejected its parameters.
// Handlers return it for missing or malformed arguments; the dispatcher
// maps it to InvalidParams.
type ValidationError struct {
	Detail string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Detail
}

// NewValidationError creates a ValidationError with a formatted detail message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// DispatchErrorKind enumerates the failure modes of a tool invocation.
// The set is closed: every dispatch failure is exactly one of these.
type DispatchErrorKind int

const (
	// UnknownTool means the requested name has no handler binding.
	UnknownTool DispatchErrorKind = iota
	// DisabledTool means the name was rejected by the enablement filter.
	DisabledTool
	// ValidationFailed means the handler rejected the parameters.
	ValidationFailed
	// ExecutionFailed covers every other handler failure.
	ExecutionFailed
)

// String returns the kind name for logging.
func (k DispatchErrorKind) String() string {
	switch k {
	case UnknownTool:
		return "unknown_tool"
	case DisabledTool:
		return "disabled_tool"
	case ValidationFailed:
		return "validation_failed"
	case ExecutionFailed:
		return "execution_failed"
	default:
		return "unknown"
	}
}

// DispatchError is the single failure type raised by the dispatcher.
// It carries the tool name so clients can correlate errors with calls,
// and maps onto the JSON-RPC error contract via Protocol.
type DispatchError struct {
	Kind   DispatchErrorKind
	Tool   string
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return e.Protocol().Message
}

// Unwrap exposes the underlying handler error, if any.
func (e *DispatchError) Unwrap() error {
	return e.Cause
}

// Protocol converts the dispatch error into a JSON-RPC error object.
func (e *DispatchError) Protocol() *Error {
	switch e.Kind {
	case UnknownTool:
		return &Error{Code: MethodNotFound, Message: fmt.Sprintf("Unknown tool: %s", e.Tool)}
	case DisabledTool:
		return &Error{Code: MethodNotFound, Message: e.Detail}
	case ValidationFailed:
		return &Error{Code: InvalidParams, Message: fmt.Sprintf("Invalid params for tool %s: %s", e.Tool, e.Detail)}
	default:
		return &Error{Code: ToolExecutionError, Message: fmt.Sprintf("Error executing tool %s: %s", e.Tool, e.Detail)}
	}
}

// APIError represents a failed ClickUp API call. The status code is
// preserved so callers can distinguish auth, missing-resource, and
// rate-limit failures without parsing message text.
type APIError struct {
	StatusCode int
	Endpoint   string
	Detail     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("ClickUp API error (status %d) on %s: %s", e.StatusCode, e.Endpoint, e.Detail)
}
