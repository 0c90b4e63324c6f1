package domain

import "errors"

var (
	// ErrSchemaMismatch indicates a record or configuration lacks an expected field.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrMalformedPrice indicates a catalog price that does not parse as a number.
	ErrMalformedPrice = errors.New("malformed price")

	// ErrConfigurationShape indicates a source whose length differs from the dimension count.
	ErrConfigurationShape = errors.New("configuration shape error")

	// ErrMatrixNotFound indicates no matrix is stored under the requested name.
	ErrMatrixNotFound = errors.New("matrix not found")
)
