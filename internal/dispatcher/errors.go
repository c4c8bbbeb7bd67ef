package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrInvalidRequest indicates a request with an unknown kind.
	ErrInvalidRequest = errors.New("dispatcher: invalid request")

	// ErrRoundLimit indicates a request was dropped because its round
	// exceeded the configured request bound.
	ErrRoundLimit = errors.New("dispatcher: too many requests in round")

	// ErrRejected indicates a pre-process hook refused the request.
	ErrRejected = errors.New("dispatcher: request rejected")
)
