package bus

import "errors"

// Bus errors.
var (
	// ErrUnknownClient indicates a message addressed to a client that is not
	// connected.
	ErrUnknownClient = errors.New("bus: unknown client")

	// ErrClosed indicates the client has been closed.
	ErrClosed = errors.New("bus: client closed")

	// ErrEmptyTag indicates a message without a tag.
	ErrEmptyTag = errors.New("bus: empty tag")
)
