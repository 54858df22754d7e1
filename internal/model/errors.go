package model

import (
	"errors"
	"fmt"
)

// ErrMissingCredential matches any *MissingCredentialError via errors.Is.
var ErrMissingCredential = errors.New("missing credential")

// MissingCredentialError means the price source has no API key configured.
// It is the signal to operate fallback-only, not a fatal condition.
type MissingCredentialError struct {
	Provider string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s: api key not configured", e.Provider)
}

func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

// UnsupportedSetError is returned when a UI set id has no mapping.
type UnsupportedSetError struct {
	SetID string
}

func (e *UnsupportedSetError) Error() string {
	return fmt.Sprintf("unsupported set %q", e.SetID)
}

// UpstreamRequestError covers transport failures, timeouts and non-2xx
// responses from an external source.
type UpstreamRequestError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *UpstreamRequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Source, e.Err)
}

func (e *UpstreamRequestError) Unwrap() error { return e.Err }

// MalformedResponseError is returned when a body matches none of the
// recognized response shapes.
type MalformedResponseError struct {
	Source string
	Detail string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response: %s: %v", e.Source, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: malformed response: %s", e.Source, e.Detail)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsUpstreamFailure reports whether err is one the caller may recover from by
// substituting the fallback table.
func IsUpstreamFailure(err error) bool {
	if err == nil {
		return false
	}
	var up *UpstreamRequestError
	var bad *MalformedResponseError
	return errors.Is(err, ErrMissingCredential) || errors.As(err, &up) || errors.As(err, &bad)
}

// IsUnsupportedSet reports whether err wraps an *UnsupportedSetError.
func IsUnsupportedSet(err error) bool {
	var e *UnsupportedSetError
	return errors.As(err, &e)
}
