package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/davidbz/pricematrix/internal/domain"
)

// MatrixStore keeps matrices in process memory.
type MatrixStore struct {
	mu       sync.RWMutex
	matrices map[string]domain.Matrix
}

// NewMatrixStore creates an empty in-memory matrix store.
func NewMatrixStore() *MatrixStore {
	return &MatrixStore{
		mu:       sync.RWMutex{},
		matrices: make(map[string]domain.Matrix),
	}
}

// Save stores a copy of the matrix.
func (s *MatrixStore) Save(_ context.Context, name string, matrix domain.Matrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matrices[name] = clone(matrix)
	return nil
}

// Load returns a copy of the named matrix.
func (s *MatrixStore) Load(_ context.Context, name string) (domain.Matrix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matrix, exists := s.matrices[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrMatrixNotFound, name)
	}
	return clone(matrix), nil
}

// List returns all stored names, sorted.
func (s *MatrixStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.matrices)), nil
}

func clone(matrix domain.Matrix) domain.Matrix {
	out := make(domain.Matrix, len(matrix))
	for i, e := range matrix {
		out[i] = domain.Entry{Labels: slices.Clone(e.Labels), Price: e.Price}
	}
	return out
}
