package redmine

import (
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable matches every failure to get a usable response from
// Redmine: transport errors, non-2xx statuses and undecodable bodies.
var ErrUpstreamUnavailable = errors.New("redmine upstream unavailable")

type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("redmine %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("redmine %s: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("redmine %s failed", e.Endpoint)
	}
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstreamUnavailable}
	}
	return []error{ErrUpstreamUnavailable, e.Err}
}
