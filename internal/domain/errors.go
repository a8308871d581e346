package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProbeTimeout        = errors.New("probe timeout")
	ErrProbeConnection     = errors.New("probe connection failure")
	ErrProbeParse          = errors.New("probe output not understood")
	ErrUnsupportedPlatform = errors.New("metric unavailable on this platform")
	ErrPersist             = errors.New("persist report")
	ErrConfiguration       = errors.New("invalid configuration")
)

// ProbeError is a probe failure with a message meant for the report reader.
// errors.Is matches it against its Kind sentinel.
type ProbeError struct {
	Kind    error
	Message string
	Cause   error
}

func NewProbeError(kind error, cause error, format string, args ...any) *ProbeError {
	return &ProbeError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *ProbeError) Error() string { return e.Message }

func (e *ProbeError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
