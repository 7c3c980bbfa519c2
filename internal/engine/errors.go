package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrTaskNotFound = errors.New("task not found")

// ValidationError reports user input that cannot be accepted.
// It is returned as-is and should be shown to the user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// RequireText trims s and returns a ValidationError naming field when it is empty.
func RequireText(field, s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", ValidationError{Field: field, Reason: "is required"}
	}
	return t, nil
}
