package todo

import (
	"errors"
	"fmt"
	"strings"
)

// Error variables for the fetch pipeline.
var (
	ErrInvalidID = errors.New("invalid todo id")
	ErrFetch     = errors.New("cannot fetch todo")
	ErrDecode    = errors.New("cannot decode todo")
)

// FetchError reports that the remote call did not complete or that its body
// was not JSON.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrFetch, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFetch.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// FieldError describes one field that failed validation.
type FieldError struct {
	Field string // wire key
	Want  string // expected primitive type
	Got   string // observed type, "missing" if absent
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: want %s, got %s", f.Field, f.Want, f.Got)
}

// DecodeError reports that data did not match the Todo shape. Fields lists
// every offending key; Cause is set instead when the failure came from the
// fetch step and was folded into a decode failure.
type DecodeError struct {
	Fields []FieldError
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", ErrDecode, e.Cause)
	}

	if len(e.Fields) == 0 {
		return ErrDecode.Error()
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}

	return fmt.Sprintf("%s: %s", ErrDecode, strings.Join(parts, "; "))
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrDecode. Wrapped causes are matched through
// Unwrap, so a folded fetch failure also matches ErrFetch.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
