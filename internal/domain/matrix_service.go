package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidbz/pricematrix/internal/observability"
)

// MatrixService orchestrates compiling, resolving and storing price matrices.
type MatrixService struct {
	resolver *Resolver
	store    MatrixStore
	events   EventPublisher
}

// NewMatrixService creates a new matrix service (DI constructor).
// store and events may be nil.
func NewMatrixService(resolver *Resolver, store MatrixStore, events EventPublisher) *MatrixService {
	return &MatrixService{
		resolver: resolver,
		store:    store,
		events:   events,
	}
}

// Build resolves the plan against the catalog and returns the sorted matrix.
func (s *MatrixService) Build(ctx context.Context, plan *Plan, source RecordSource) (Matrix, error) {
	if plan == nil {
		return nil, errors.New("plan cannot be nil")
	}
	if source == nil {
		return nil, errors.New("record source cannot be nil")
	}

	ctx = observability.WithCatalog(ctx, source.Name())
	logger := observability.FromContext(ctx)

	compiled, err := Compile(plan.Sources, plan.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sources: %w", err)
	}
	logger.Info("compiled sources",
		observability.Int("dimensions", len(plan.Dimensions)),
		observability.Int("sources", len(compiled)),
		observability.Int("pre_conditions", len(plan.PreConditions)))

	entries := s.resolver.Resolve(source.Records(ctx), plan.PreConditions, compiled)

	matrix, err := Assemble(entries)
	if err != nil {
		logger.Error("matrix resolution failed", observability.Error(err))
		return nil, fmt.Errorf("failed to resolve matrix: %w", err)
	}

	logger.Info("matrix resolved", observability.Int("entries", len(matrix)))
	s.publish(ctx, "matrix.resolved", map[string]interface{}{
		"meter":   plan.MeterAPIName,
		"sources": len(compiled),
		"entries": len(matrix),
	})

	return matrix, nil
}

// Store saves a matrix under the given name.
func (s *MatrixService) Store(ctx context.Context, name string, matrix Matrix) error {
	if name == "" {
		return errors.New("matrix name cannot be empty")
	}
	if s.store == nil {
		return errors.New("matrix store is not configured")
	}

	if err := s.store.Save(ctx, name, matrix); err != nil {
		return fmt.Errorf("failed to store matrix %s: %w", name, err)
	}

	s.publish(ctx, "matrix.stored", map[string]interface{}{
		"name":    name,
		"entries": len(matrix),
	})
	return nil
}

// Get returns a stored matrix.
func (s *MatrixService) Get(ctx context.Context, name string) (Matrix, error) {
	if name == "" {
		return nil, errors.New("matrix name cannot be empty")
	}
	if s.store == nil {
		return nil, errors.New("matrix store is not configured")
	}

	matrix, err := s.store.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load matrix %s: %w", name, err)
	}
	return matrix, nil
}

// List returns the names of all stored matrices.
func (s *MatrixService) List(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return nil, errors.New("matrix store is not configured")
	}

	names, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matrices: %w", err)
	}
	return names, nil
}

func (s *MatrixService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, eventType, data)
}
