package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced path or key does not
	// exist where existence was required, or when an update matches no
	// element.
	ErrNotFound = errors.New("not found")

	// ErrTypeMismatch is returned when an operation requiring an array
	// or an object finds the wrong shape at the path.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrConfiguration is returned for invalid construction or
	// aggregation parameters, and for index operations attempted while
	// indexing is disabled.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrPrecondition is returned when an operation is invoked without
	// an argument it requires, such as a delete on an array target with
	// neither predicate nor keys.
	ErrPrecondition = errors.New("precondition failed")

	// ErrIndexingDisabled is returned by index operations when the store
	// was built with indexing disabled.
	ErrIndexingDisabled = fmt.Errorf("%w: indexing is disabled", ErrConfiguration)
)
