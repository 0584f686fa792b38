package dispatch

import "errors"

var (
	// ErrCreateRequest is matched by every descriptor construction failure.
	ErrCreateRequest = errors.New("failed to create request")

	// ErrNoResponse is returned when a client reports neither a response
	// nor an error.
	ErrNoResponse = errors.New("client returned no response")
)
