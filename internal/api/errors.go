package api

import (
	"errors"
	"fmt"
)

// BusinessError is returned when the server answered 2xx but its envelope
// carried a code other than CodeOK. It never affects the credential, even
// when Code is 401.
type BusinessError struct {
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("business error (%d): %s", e.Code, e.Message)
}

// HTTPError is returned when the server answered with a non-2xx status.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error (%d): %s", e.Status, e.Message)
}

// NetworkError is returned when no response was received.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "network error: " + e.Message
	}
	return fmt.Sprintf("network error: %s: %v", e.Message, e.Err)
}

// Unwrap returns the transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ConfigError is returned when the request could not be built.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return "request config error: " + e.Message
	}
	return fmt.Sprintf("request config error: %s: %v", e.Message, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsBusinessError reports whether err (or any error in its chain) is a
// BusinessError.
func IsBusinessError(err error) bool {
	var be *BusinessError
	return errors.As(err, &be)
}

// IsUnauthorized reports whether err is a transport-level 401. Envelope
// code 401 does not count.
func IsUnauthorized(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == 401
}

// IsNetworkError reports whether err (or any error in its chain) is a
// NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
