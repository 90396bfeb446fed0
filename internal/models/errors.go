package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound           = errors.New("not found")
	ErrMalformedAggregate = errors.New("malformed aggregate")
	ErrInvalidFilter      = errors.New("invalid filter")
)

// NotFoundError reports a missing tournament, tournament event or record.
type NotFoundError struct {
	Kind string
	ID   any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound creates a not found error for the given entity kind and id.
func NewNotFound(kind string, id any) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// MalformedAggregateError reports a nested sub-document that could not be decoded.
type MalformedAggregateError struct {
	Field string
	Err   error
}

func (e *MalformedAggregateError) Error() string {
	return fmt.Sprintf("%s: field %q: %v", ErrMalformedAggregate.Error(), e.Field, e.Err)
}

func (e *MalformedAggregateError) Unwrap() []error { return []error{ErrMalformedAggregate, e.Err} }

// NewMalformedAggregate creates a malformed aggregate error for a nested field.
func NewMalformedAggregate(field string, err error) error {
	return &MalformedAggregateError{Field: field, Err: err}
}

// InvalidFilterError reports a structurally inconsistent filter.
type InvalidFilterError struct {
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidFilter.Error(), e.Reason)
}

func (e *InvalidFilterError) Unwrap() error { return ErrInvalidFilter }

// NewInvalidFilter creates an invalid filter error.
func NewInvalidFilter(format string, args ...any) error {
	return &InvalidFilterError{Reason: fmt.Sprintf(format, args...)}
}
