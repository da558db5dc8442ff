package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error kinds. Every error returned by a service either wraps exactly one of
// these or is an internal fault.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrAccessDenied      = errors.New("access denied")
	ErrDuplicateIdentity = errors.New("duplicate identity")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnavailable       = errors.New("service unavailable")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// ErrDanglingReference reports a row whose parent is missing. It is a fault,
// never a NotFound.
var ErrDanglingReference = errors.New("entity references a missing parent")

// parseDueDate accepts a calendar date or an RFC3339 timestamp. An empty
// string means "no due date".
func parseDueDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidDueDate, value)
}

var ErrInvalidDueDate = newError(ErrInvalidInput, "due date must be YYYY-MM-DD or RFC3339")
