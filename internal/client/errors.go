package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies API failures so callers can pick a recovery policy
// without inspecting status codes.
type ErrorKind int

const (
	// KindTransient covers network failures and 5xx responses. Retried only
	// by the next natural poll tick, never synchronously.
	KindTransient ErrorKind = iota
	// KindAuth is a 401. The session is invalid; the stored credential must
	// be cleared.
	KindAuth
	// KindBusiness covers the remaining 4xx responses (validation errors,
	// conflicting mutations). Surfaced as a message, no state applied.
	KindBusiness
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindBusiness:
		return "business"
	default:
		return "transient"
	}
}

// APIError is the uniform failure value every client method returns. Raw
// transport errors never escape the client boundary.
type APIError struct {
	Kind       ErrorKind
	StatusCode int // 0 for network-level failures
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api: %s (%s)", e.Message, e.Kind)
	}
	return fmt.Sprintf("api: %s (%s, status %d)", e.Message, e.Kind, e.StatusCode)
}

// classify maps an HTTP status code to an error kind.
func classify(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status >= 400 && status < 500:
		return KindBusiness
	default:
		return KindTransient
	}
}

// IsAuthError reports whether err is a 401 from the API.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// IsTransient reports whether err is a network-level or 5xx failure.
func IsTransient(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindTransient
}
