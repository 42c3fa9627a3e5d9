// Package services defines the catalog business logic. This file centralizes
// the service-level error values so that callers can branch on them with
// errors.Is and translate them into transport responses.
package services

import (
	"errors"
	"fmt"
)

// Catalog error kinds. Messages are user-facing and rendered verbatim by
// clients, so they are kept stable.
var (
	// ErrDuplicateKey is returned when a create or update targets a pk that
	// already belongs to a different live dog.
	ErrDuplicateKey = errors.New("The specified PK already exists.")

	// ErrNotFound is returned when a lookup or update target pk is absent.
	ErrNotFound = errors.New("Have not dog with this pk.")

	// ErrInvalidDog is returned when a dog fails entity validation
	// (empty name, unknown kind).
	ErrInvalidDog = errors.New("invalid dog")
)

// FieldError attaches the offending field to a service error.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// Unwrap exposes the underlying error kind to errors.Is.
func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
