package synth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaViolation is the cause of a SynthesisError whose attempts all
// returned unusable output.
var ErrSchemaViolation = errors.New("model output violated the response schema")

// SynthesisError reports a failed synthesis. Either Err is set (the client
// failed) or Violations lists what the last response got wrong.
type SynthesisError struct {
	Attempts   int
	Violations []string
	Err        error
}

func (e *SynthesisError) Error() string {
	if e.Err != nil && e.Attempts == 0 {
		return fmt.Sprintf("synthesis failed before the first request: %v", e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("synthesis failed on attempt %d: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("synthesis failed after %d attempt(s): %s", e.Attempts, strings.Join(e.Violations, "; "))
}

func (e *SynthesisError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrSchemaViolation
}
