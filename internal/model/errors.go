// internal/model/errors.go
//
// Sentinel errors shared by the model tiers.  Callers branch with
// errors.Is; none of these ever reach a response body verbatim.

package model

import "errors"

var (
	// ErrInvalidOption is returned when an option from an incompatible
	// tier is passed to a model.  Filters are never silently ignored.
	ErrInvalidOption = errors.New("model: option tier incompatible with model")

	// ErrInvalidField is returned when a caller names an undeclared column,
	// either as a sort field, a lookup field, or a uniqueness target.
	ErrInvalidField = errors.New("model: field not declared for table")

	// ErrNotUnique is returned when a by-field lookup matches more than one
	// row on a column the caller believed unique.  This is a consistency
	// violation, not a soft miss.
	ErrNotUnique = errors.New("model: multiple rows match a supposedly unique field")
)
