package model

import (
	"errors"
	"fmt"
)

var (
	// ErrPreconditionViolation reports input the computation cannot be defined on,
	// such as a forecast over fewer than two points.
	ErrPreconditionViolation = errors.New("precondition violation")

	// ErrInvalidRecord reports a malformed or missing numeric field.
	ErrInvalidRecord = errors.New("invalid record")
)

// RecordError locates an invalid field. It unwraps to ErrInvalidRecord.
type RecordError struct {
	Source string // e.g. "campaign", "country.point"
	Index  int    // position within Source, -1 when unknown
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	loc := e.Source
	if e.Index >= 0 {
		loc = fmt.Sprintf("%s[%d]", e.Source, e.Index)
	}
	if loc == "" {
		return fmt.Sprintf("invalid record: field %q %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid record %s: field %q %s", loc, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidRecord.
func (e *RecordError) Unwrap() error { return ErrInvalidRecord }
