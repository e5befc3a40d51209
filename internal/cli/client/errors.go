package client

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionExpired is returned when the backend rejects the bearer token.
	// The session has already been cleared when a caller sees it.
	ErrSessionExpired = errors.New("session expired, please log in again")

	// ErrNotLoggedIn is returned when an authenticated call is attempted without a token
	ErrNotLoggedIn = errors.New("not logged in. Please run 'lexicon login' first")
)

// RequestFailedError is any non-2xx response that is not an authorization failure
type RequestFailedError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       string
}

func (e *RequestFailedError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s failed (%s): %s", e.Method, e.Path, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s failed (%s)", e.Method, e.Path, e.Status)
}

// InvalidResponseError reports a 2xx response whose body is not the expected shape
type InvalidResponseError struct {
	Path string
	Err  error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.Path, e.Err)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is a RequestFailedError with the given status code
func IsStatus(err error, code int) bool {
	var reqErr *RequestFailedError
	return errors.As(err, &reqErr) && reqErr.StatusCode == code
}
