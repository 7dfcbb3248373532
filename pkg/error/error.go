package error

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorCategory classifies errors by their nature and appropriate handling strategy.
// The category decides whether the statement loop reports the error and continues,
// or whether the process must stop.
type ErrorCategory int

const (
	// ErrCategoryUser represents errors caused by invalid user input.
	// Examples: negative ids, oversize strings, unknown statements.
	// These are reported and the session continues; nothing was mutated.
	ErrCategoryUser ErrorCategory = iota

	// ErrCategoryCapacity represents a structure that has no room left.
	// Example: a leaf node that already holds its maximum number of cells.
	// The attempted row is discarded and existing content is untouched.
	ErrCategoryCapacity

	// ErrCategorySystem represents errors requiring administrator intervention.
	// Examples: I/O failures, page indexes beyond the cache, use after close.
	// These are fatal for the session.
	ErrCategorySystem

	// ErrCategoryData represents errors related to data corruption or integrity.
	// Example: a database file whose length is not a whole number of pages.
	// These are fatal for the session.
	ErrCategoryData
)

// String returns the lowercase name of the category, used as a log attribute.
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryUser:
		return "user"
	case ErrCategoryCapacity:
		return "capacity"
	case ErrCategorySystem:
		return "system"
	case ErrCategoryData:
		return "data"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// DBError represents a structured database error with rich context information.
type DBError struct {
	// Code is a unique identifier for this error type (e.g., "TABLE_FULL", "CORRUPT_FILE").
	Code string

	// Category classifies the error for appropriate handling strategy.
	Category ErrorCategory

	// Message is a human-readable description of what went wrong.
	// For user and capacity errors it is exactly the text shown at the prompt.
	Message string

	// Detail provides additional context about the specific error instance.
	// Example: "file length 5000 is not a multiple of 4116".
	Detail string

	// Operation identifies the operation that was being performed when the error occurred.
	// Examples: "Insert", "GetPage", "Flush", "Open".
	Operation string

	// Component identifies the system component where the error originated.
	// Examples: "Pager", "LeafNode", "Table", "RowCodec".
	Component string

	// Cause is the underlying error that triggered this database error.
	// This enables error chaining while preserving the original error context.
	Cause error

	// Stack contains the call stack where this error was created.
	// Used for debugging and is automatically captured in New() and Wrap().
	Stack []uintptr
}

// New creates a new DBError with the specified code, category, and message.
func New(category ErrorCategory, code, message string) *DBError {
	err := &DBError{
		Code:     code,
		Category: category,
		Message:  message,
		Stack:    captureStack(),
	}
	return err
}

// Wrap wraps an existing error with database-specific context information.
// If the error is already a DBError, it enriches the existing error with
// operation and component context (only if not already set).
func Wrap(err error, code, operation, component string) *DBError {
	if err == nil {
		return nil
	}

	var dbErr *DBError
	if errors.As(err, &dbErr) {
		if dbErr.Operation == "" {
			dbErr.Operation = operation
		}
		if dbErr.Component == "" {
			dbErr.Component = component
		}
		return dbErr
	}

	return &DBError{
		Code:      code,
		Category:  ErrCategorySystem,
		Message:   err.Error(),
		Operation: operation,
		Component: component,
		Cause:     err,
		Stack:     captureStack(),
	}
}

// WithDetail attaches instance-specific context and returns the same error.
func (e *DBError) WithDetail(format string, args ...any) *DBError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithContext sets the operation and component and returns the same error.
func (e *DBError) WithContext(operation, component string) *DBError {
	e.Operation = operation
	e.Component = component
	return e
}

// captureStack captures the current call stack for debugging purposes.
// It skips the first 3 frames to exclude captureStack, New/Wrap, and the
// immediate caller, focusing on the actual error origin.
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[0:n]
}

// Error implements the standard Go error interface
//
// The format follows the pattern:
// [ERROR_CODE] Message: Detail (operation: Operation, component: Component) caused by: underlying error
func (e *DBError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(": %s", e.Detail))
	}

	if e.Operation != "" {
		b.WriteString(fmt.Sprintf(" (operation: %s", e.Operation))
		if e.Component != "" {
			b.WriteString(fmt.Sprintf(", component: %s", e.Component))
		}
		b.WriteString(")")
	}

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(" caused by: %v", e.Cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause error, enabling error chain traversal
// with Go's standard error handling functions like errors.Is and errors.As.
func (e *DBError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DBError with the same code, so that every
// instance of a code matches its sentinel under errors.Is.
func (e *DBError) Is(target error) bool {
	t, ok := target.(*DBError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// FormatStack returns a human-readable stack trace for debugging purposes.
func (e *DBError) FormatStack() string {
	if len(e.Stack) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(e.Stack)

	b.WriteString("Stack trace:\n")
	for {
		f, more := frames.Next()
		b.WriteString(fmt.Sprintf("  %s\n    %s:%d\n",
			f.Function, f.File, f.Line))
		if !more {
			break
		}
	}

	return b.String()
}
