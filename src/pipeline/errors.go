package pipeline

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks an analysis response that was not the
// structured output the pipeline asked for.
var ErrMalformedResponse = errors.New("malformed analysis response")

// ExternalServiceError reports a failed call to the analysis service: a
// transport error, a timeout, or a response that could not be used. Raw
// preserves the offending content for diagnostics.
type ExternalServiceError struct {
	Op  string
	Raw string
	Err error
}

func (e *ExternalServiceError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("analysis %s failed: %v (raw: %s)", e.Op, e.Err, e.Raw)
	}
	return fmt.Sprintf("analysis %s failed: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

func newParseError(raw string) *ExternalServiceError {
	return &ExternalServiceError{Op: "parse", Raw: raw, Err: ErrMalformedResponse}
}
