package analysis

import (
    "errors"
    "fmt"
    "strings"
)

// ErrValidation is the sentinel every ValidationError unwraps to.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a missing or blank required input.
type ValidationError struct {
    Field string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("missing field '%s'", e.Field)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// RequireText trims value and fails when nothing is left.
func RequireText(field, value string) (string, error) {
    v := strings.TrimSpace(value)
    if v == "" {
        return "", &ValidationError{Field: field}
    }
    return v, nil
}
