package errors

import (
	stdErrors "errors"
	"fmt"
)

// Code identifies a failure class shared across the task library.
type Code string

// Severity describes how serious an error is, used for diagnostics.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Attributes provide the default behaviour for an error code.
type Attributes struct {
	Message  string
	Severity Severity
}

const (
	CodeUnknown                 Code = "UNKNOWN"
	CodeInvalidArgument         Code = "INVALID_ARGUMENT"
	CodeMissingVariable         Code = "MISSING_VARIABLE"
	CodeMissingEndpoint         Code = "MISSING_ENDPOINT"
	CodeTypeResolution          Code = "TYPE_RESOLUTION_FAILED"
	CodeModuleLoad              Code = "MODULE_LOAD_FAILED"
	CodeCredential              Code = "CREDENTIAL_FAILURE"
	CodeCredentialUnimplemented Code = "CREDENTIAL_UNIMPLEMENTED"
)

var registry = map[Code]Attributes{
	CodeUnknown: {
		Message:  "unknown error",
		Severity: SeverityCritical,
	},
	CodeInvalidArgument: {
		Message:  "invalid argument",
		Severity: SeverityInfo,
	},
	CodeMissingVariable: {
		Message:  "required variable is not set",
		Severity: SeverityCritical,
	},
	CodeMissingEndpoint: {
		Message:  "required service endpoint is not configured",
		Severity: SeverityCritical,
	},
	CodeTypeResolution: {
		Message:  "type could not be resolved",
		Severity: SeverityCritical,
	},
	CodeModuleLoad: {
		Message:  "module could not be loaded",
		Severity: SeverityCritical,
	},
	CodeCredential: {
		Message:  "credential could not be constructed",
		Severity: SeverityCritical,
	},
	CodeCredentialUnimplemented: {
		Message:  "credential type not implemented for this runtime",
		Severity: SeverityCritical,
	},
}

// AttributesOf returns the attributes for a code, falling back to UNKNOWN.
func AttributesOf(code Code) Attributes {
	if attr, ok := registry[code]; ok {
		return attr
	}
	return registry[CodeUnknown]
}

// Error is the unified error type used throughout the library.
type Error struct {
	code     Code
	message  string
	cause    error
	metadata map[string]string
}

// Option configures an Error at construction time.
type Option func(*Error)

// WithMetadata attaches extra key/value context.
func WithMetadata(key, value string) Option {
	return func(e *Error) {
		if e.metadata == nil {
			e.metadata = make(map[string]string)
		}
		e.metadata[key] = value
	}
}

// New creates an error with the given code and message.
func New(code Code, message string, opts ...Option) *Error {
	if message == "" {
		message = AttributesOf(code).Message
	}
	e := &Error{code: code, message: message}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Wrap creates a coded error around an existing cause. The cause stays
// reachable through errors.Unwrap so callers never lose the original detail.
func Wrap(code Code, cause error, message string, opts ...Option) *Error {
	e := New(code, message, opts...)
	e.cause = cause
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Unwrap implements errors.Unwrap.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches two coded errors by code.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.code == t.code
}

// Code returns the error code.
func (e *Error) Code() Code {
	if e == nil {
		return CodeUnknown
	}
	return e.code
}

// Message returns the human readable message.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Metadata returns a copy of the attached metadata.
func (e *Error) Metadata() map[string]string {
	if e == nil || len(e.metadata) == 0 {
		return nil
	}
	clone := make(map[string]string, len(e.metadata))
	for k, v := range e.metadata {
		clone[k] = v
	}
	return clone
}

// Severity returns the effective severity of the error.
func (e *Error) Severity() Severity {
	if e == nil {
		return SeverityInfo
	}
	return AttributesOf(e.code).Severity
}

// From extracts a coded error from an error chain.
func From(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var target *Error
	if stdErrors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// CodeOf returns the code carried by err, or UNKNOWN.
func CodeOf(err error) Code {
	if e, ok := From(err); ok {
		return e.Code()
	}
	return CodeUnknown
}
