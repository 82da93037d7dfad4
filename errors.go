package meetup

import (
	"errors"
	"fmt"
)

// ErrAuthorizationRequired is returned when no usable token pair exists and a
// refresh is impossible. The expected recovery is the interactive `authorize`
// flow, not a retry.
var ErrAuthorizationRequired = errors.New("meetup: authorization required")

// ErrInvalidToken is returned by the liveness probe when the API rejects the
// access token.
var ErrInvalidToken = errors.New("meetup: access token rejected")

// ConfigurationError reports missing or unusable credentials, including an
// unreadable or malformed signing key file. It is fatal at startup.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TransportError reports a failed call to a remote endpoint: a connection
// failure, a non-2xx status, or a body that could not be decoded. StatusCode
// is zero when no response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
