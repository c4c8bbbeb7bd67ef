package protocol

import (
	"errors"
	"fmt"
)

// Protocol errors.
var (
	// ErrMissingID indicates a request without an id.
	ErrMissingID = errors.New("protocol: missing request id")

	// ErrMissingContent indicates a request without a content object.
	ErrMissingContent = errors.New("protocol: missing request content")

	// ErrMissingField indicates a required content field is absent.
	ErrMissingField = errors.New("protocol: missing field")

	// ErrUnknownRequest indicates an unrecognized request type.
	ErrUnknownRequest = errors.New("protocol: unknown request type")

	// ErrUnknownPosition indicates an unrecognized position type.
	ErrUnknownPosition = errors.New("protocol: unknown position type")

	// ErrUnknownResponse indicates an unrecognized response type.
	ErrUnknownResponse = errors.New("protocol: unknown response type")

	// ErrIndexRange indicates a position index outside its representable range.
	ErrIndexRange = errors.New("protocol: index out of range")
)

// DecodeError reports a request payload that could not be decoded.
type DecodeError struct {
	// ID is the request id when it could be recovered, otherwise zero.
	ID  uint32
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("protocol: decode request %d: %v", e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
