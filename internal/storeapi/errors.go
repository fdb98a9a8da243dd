package storeapi

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks a fetch that failed before a response arrived,
	// including requests short-circuited by an open breaker.
	ErrNetwork = errors.New("fetch failed")

	// ErrNotFound maps a 404 from the storefront API.
	ErrNotFound = errors.New("no such resource")
)

// StatusError is a non-2xx response that is neither a 404 nor retriable
// as a plain network failure.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	if e.Status >= 500 {
		return "fetch failed"
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}
