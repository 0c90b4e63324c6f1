package domain

import (
	"fmt"
	"maps"
	"slices"
)

// Record is one row of the raw pricing catalog.
type Record struct {
	fields map[string]string
}

// NewRecord creates a record from a field bag. The map is copied.
func NewRecord(fields map[string]string) Record {
	return Record{fields: maps.Clone(fields)}
}

// Field returns the value of a field, or ErrSchemaMismatch if the record lacks it.
func (r Record) Field(name string) (string, error) {
	value, ok := r.fields[name]
	if !ok {
		return "", fmt.Errorf("%w: record has no field %q", ErrSchemaMismatch, name)
	}
	return value, nil
}

// Has reports whether the record defines a field.
func (r Record) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Fields returns the record's field names in sorted order.
func (r Record) Fields() []string {
	return slices.Sorted(maps.Keys(r.fields))
}
