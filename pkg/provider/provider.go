// Package provider holds types shared by the speech and language model
// provider sub-packages.
package provider

import (
	"errors"
	"fmt"
)

// UpstreamError reports a failed call to an external speech or language
// service: a non-success HTTP status, an unreachable endpoint, or a response
// whose payload could not be parsed. Callers recover from it locally (the
// call flow degrades to an apology prompt); it is never fatal.
type UpstreamError struct {
	// Service names the upstream collaborator, e.g. "stt", "tts", "recording".
	Service string

	// StatusCode is the HTTP status returned by the service, or 0 when the
	// request never produced a response.
	StatusCode int

	// Err is the underlying cause. May be nil when StatusCode alone
	// describes the failure.
	Err error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: upstream returned HTTP %d: %v", e.Service, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: upstream returned HTTP %d", e.Service, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: upstream call failed: %v", e.Service, e.Err)
	default:
		return e.Service + ": upstream call failed"
	}
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstream reports whether err is (or wraps) an [UpstreamError].
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
