package grammar

import (
	"errors"
	"fmt"
)

// Grammar errors.
var (
	// ErrUnsupportedLanguage indicates the language id is not registered.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrGrammarLoad indicates a grammar resource failed to load or compile.
	ErrGrammarLoad = errors.New("grammar load failed")

	// ErrParse indicates content could not be parsed.
	ErrParse = errors.New("parse failed")

	// ErrAlreadyRegistered indicates a duplicate language registration.
	ErrAlreadyRegistered = errors.New("language already registered")

	// ErrInvalidRegistration indicates a registration with a missing id
	// or factory.
	ErrInvalidRegistration = errors.New("invalid registration")
)

// OperationError represents an error that occurred during a specific
// grammar operation.
type OperationError struct {
	Op      string // Operation name (e.g., "load", "parse", "resolve")
	Target  string // Target of the operation (usually a language id)
	Context string // Additional context
	Err     error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

// WithContext adds context to the error.
// Safe to call on nil receiver - returns nil.
func (e *OperationError) WithContext(ctx string) *OperationError {
	if e == nil {
		return nil
	}
	e.Context = ctx
	return e
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	var msg string
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	} else {
		msg = e.Op
	}

	if e.Context != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Context)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for OperationError.
// Matches both the wrapper itself and the wrapped error.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}
