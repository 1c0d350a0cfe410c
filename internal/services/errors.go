package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAuthenticationRequired means the call carried no caller identity.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrNotFound covers absent rows and rows outside the caller's boards.
	ErrNotFound = errors.New("not found")
)

// PermissionError is returned when the caller is a participant but their
// role does not allow the action.
type PermissionError struct {
	Rule string
}

func (e *PermissionError) Error() string {
	return "permission denied: " + e.Rule
}

// ValidationError carries messages per offending input field.
type ValidationError struct {
	Fields map[string][]string
}

func invalid(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Err returns e when it holds at least one message, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
