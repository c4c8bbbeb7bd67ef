package config

import (
	"errors"
	"fmt"

	"github.com/dshills/scrollpane/internal/config/loader"
)

// ErrTypeMismatch indicates the value type doesn't match the expected type.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrOutOfRange indicates a value outside its allowed range.
var ErrOutOfRange = errors.New("value out of range")

// ParseError is returned when the configuration file is not valid TOML.
type ParseError = loader.ParseError

// TypeError is recorded when a value has the wrong type.
type TypeError struct {
	// Path is the setting path.
	Path string
	// Expected is the expected type name.
	Expected string
	// Actual is the actual type name.
	Actual string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is implements error matching for TypeError.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// RangeError is recorded when a value is outside its allowed range.
type RangeError struct {
	Path  string
	Value int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %d for %s out of range", e.Value, e.Path)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
