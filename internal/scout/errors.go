package scout

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationFailed is returned when the report generator errors out.
	ErrGenerationFailed = errors.New("report generation failed")
	// ErrSubjectNotFound is returned when the generator could not verify the
	// queried player and no stored report matched under the fallback pass.
	ErrSubjectNotFound = errors.New("player could not be verified")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}
