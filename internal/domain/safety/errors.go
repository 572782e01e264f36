package safety

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRequestFailed matches every failed backend call
	ErrRequestFailed = errors.New("request failed")

	// ErrValidation matches every rejected form
	ErrValidation = errors.New("validation failed")
)

// RequestError describes a failed call to the backend. Status is 0 when no
// response was received.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

// UserMessage returns the backend message, or fallback when there is none
func (e *RequestError) UserMessage(fallback string) string {
	if e.Status != 0 && e.Message != "" {
		return e.Message
	}
	return fallback
}

// FieldError is a single rejected form field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the fields a form was rejected for
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, " ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ByField indexes the messages by form field name
func (e *ValidationError) ByField() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, seen := out[f.Field]; !seen {
			out[f.Field] = f.Message
		}
	}
	return out
}
