package identity

import "errors"

// Failure classification for the resolution and discovery chain. Every
// error returned from this package (and from the oauth discovery helpers
// built on it) wraps exactly one of these, so callers can tell terminal
// failures (validation, not-found) apart from ones where a retry might
// help (transport).
var (
	// Input matched neither the handle nor the DID grammar, or a required
	// argument was missing.
	ErrInvalidInput = errors.New("invalid input")

	// The lookup completed at the transport level, but the target does not
	// exist (unknown handle, deleted or tombstoned DID, exhausted
	// candidate list).
	ErrNotFound = errors.New("not found")

	// Network-level failure: DNS, connection, TLS.
	ErrTransport = errors.New("transport failure")

	// The server responded with an unexpected HTTP status.
	ErrProtocol = errors.New("unexpected HTTP response")

	// The response body was not valid JSON, or lacked a required field.
	ErrMalformedResponse = errors.New("malformed response")
)
