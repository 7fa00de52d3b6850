package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates the gateway webhook URL was never set.
	ErrNotConfigured = errors.New("gateway webhook URL not configured")

	// ErrUnexpectedFormat indicates the gateway answered with a body the
	// client cannot interpret as records.
	ErrUnexpectedFormat = errors.New("unexpected gateway response format")
)

// FetchError wraps any upstream fetch failure with the action that caused it.
type FetchError struct {
	Action     Action
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s failed with status %d: %v", e.Action, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("fetch %s failed: %v", e.Action, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchFailure reports whether err came from the gateway boundary.
func IsFetchFailure(err error) bool {
	var fetchErr *FetchError

	return errors.As(err, &fetchErr) || errors.Is(err, ErrNotConfigured)
}
