// Package clierr gives the toon CLI a small typed-error vocabulary so
// main can print a consistent, user-facing message regardless of which
// layer (config loading, decoding, encoding) produced the failure.
package clierr

import (
	"errors"
	"fmt"
)

// Category classifies where in the CLI pipeline an error originated.
type Category string

const (
	CategoryInput  Category = "input"
	CategoryConfig Category = "config"
	CategoryDecode Category = "decode"
	CategoryEncode Category = "encode"
	CategoryOutput Category = "output"
)

// Error is a CLI-level error carrying the category that produced it.
type Error struct {
	Category Category
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Category == t.Category
}

func New(cat Category, message string, err error) *Error {
	return &Error{Category: cat, Message: message, Err: err}
}

// Report formats err the way the CLI prints it to stderr: CLI errors get
// their category surfaced, anything else (e.g. a bare *toon.DecodeError)
// is shown with an "error: " prefix.
func Report(err error) string {
	var e *Error
	if errors.As(err, &e) {
		switch e.Category {
		case CategoryInput:
			return fmt.Sprintf("input error: %s", e.Message)
		case CategoryConfig:
			return fmt.Sprintf("config error: %s", e.Message)
		case CategoryDecode:
			return fmt.Sprintf("decode error: %s", e.Message)
		case CategoryEncode:
			return fmt.Sprintf("encode error: %s", e.Message)
		case CategoryOutput:
			return fmt.Sprintf("output error: %s", e.Message)
		default:
			return fmt.Sprintf("error: %s", e.Message)
		}
	}
	return fmt.Sprintf("error: %v", err)
}
