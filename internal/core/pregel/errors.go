// Package pregel defines domain-specific errors
package pregel

import "errors"

// Domain errors surfaced by the schema, store, messenger, and driver.
var (
	// Schema errors
	ErrEmptySchema    = errors.New("schema has no fields")
	ErrDuplicateField = errors.New("duplicate schema field")
	ErrFieldNotFound  = errors.New("schema field not found")
	ErrSchemaMismatch = errors.New("wrong value type for schema field")

	// Store / messenger errors
	ErrNodeIDOutOfRange = errors.New("node id out of range")

	// Bridge errors
	ErrPropertyNotFound = errors.New("node property not found in graph store")

	// Driver errors
	ErrMissingGraph       = errors.New("no graph configured")
	ErrMissingComputation = errors.New("no computation configured")
	ErrFieldNotPublic     = errors.New("schema field is not public")
)
