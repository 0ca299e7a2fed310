package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// RuntimeError is an error reported to the user, with an optional hint on how
// to resolve it.
type RuntimeError struct {
	msg   string
	cause error
	hint  string
}

// NewRuntimeError returns a new RuntimeError.
func NewRuntimeError(msg string, cause error, hint string) *RuntimeError {
	return &RuntimeError{msg: msg, cause: cause, hint: hint}
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the cause of the error.
func (e *RuntimeError) Unwrap() error {
	return e.cause
}

// Hint returns the resolution hint, if any.
func (e *RuntimeError) Hint() string {
	return e.hint
}

// Log logs an error using the default slog logger. Metadata of any
// StructuredError in the chain is rendered as fields, along with the hint of a
// RuntimeError.
func Log(err error) {
	args := []any{}

	var rerr *RuntimeError
	if errors.As(err, &rerr) && rerr.hint != "" {
		args = append(args, "hint", rerr.hint)
	}

	// Outer metadata takes precedence over the metadata of causes.
	fields := map[string]any{}
	for e := err; e != nil; {
		var serr *StructuredError
		if !errors.As(e, &serr) {
			break
		}
		for k, v := range serr.metadata {
			if _, ok := fields[k]; !ok {
				fields[k] = v
			}
		}
		e = serr.cause
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}

	slog.Error(err.Error(), args...)
}
