package domain

import (
	"context"
	"iter"
)

// RecordSource supplies catalog records as a single forward pass.
type RecordSource interface {
	// Records returns the catalog in order. The sequence may only be ranged once.
	Records(ctx context.Context) iter.Seq2[Record, error]

	// Name identifies the catalog for logging.
	Name() string
}

// MatrixStore persists resolved matrices by name.
type MatrixStore interface {
	// Save stores a matrix, replacing any previous one with the same name.
	Save(ctx context.Context, name string, matrix Matrix) error

	// Load retrieves a matrix, or ErrMatrixNotFound.
	Load(ctx context.Context, name string) (Matrix, error)

	// List returns the stored matrix names in sorted order.
	List(ctx context.Context) ([]string, error)
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
