package upstream

import "fmt"

// Kind classifies upstream failures for user-facing messaging.
type Kind string

const (
	// KindUnauthorized covers 401/403 from the backend.
	KindUnauthorized Kind = "unauthorized"
	// KindNotFound covers 404, usually a misconfigured base URL or deployment.
	KindNotFound Kind = "not_found"
	// KindUnavailable covers network failures, timeouts, and other non-2xx.
	KindUnavailable Kind = "unavailable"
	// KindMalformedResponse covers 2xx bodies that do not parse as JSON.
	KindMalformedResponse Kind = "malformed_response"
)

// Error is a classified upstream failure. Status is the HTTP status code when
// one was received, zero for transport-level failures.
type Error struct {
	Kind   Kind
	Status int
	cause  error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s (status %d): %v", e.Kind, e.Status, e.cause)
	}
	return fmt.Sprintf("upstream %s: %v", e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

func statusError(status int, cause error) *Error {
	return &Error{Kind: classifyStatus(status), Status: status, cause: cause}
}

func transportError(cause error) *Error {
	return &Error{Kind: KindUnavailable, cause: cause}
}

func malformedError(cause error) *Error {
	return &Error{Kind: KindMalformedResponse, cause: cause}
}

func classifyStatus(code int) Kind {
	switch code {
	case 401, 403:
		return KindUnauthorized
	case 404:
		return KindNotFound
	default:
		return KindUnavailable
	}
}
