package errors

import "errors"

var (
	// Sender errors
	ErrAlreadyConnected = errors.New("already connected")
	ErrNotConnected     = errors.New("not connected")

	// Handshake errors
	ErrHelloFailed        = errors.New("hello failed")
	ErrAuthenticateFailed = errors.New("authenticate failed")

	// Storage errors
	ErrGaugeNotFound      = errors.New("gauge not found")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Protocol errors reported by the ingest server
	ErrMalformedLine    = errors.New("malformed protocol line")
	ErrUnknownCommand   = errors.New("unknown protocol command")
	ErrNotAuthenticated = errors.New("connection not authenticated")
)

// UnknownHostError reports a hostname that could not be resolved. Its message
// is exactly the hostname, so callers can surface the offending name as-is.
type UnknownHostError struct {
	Host string
}

func (e *UnknownHostError) Error() string {
	return e.Host
}
