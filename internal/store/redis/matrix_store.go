package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/pricematrix/internal/domain"
	"github.com/davidbz/pricematrix/internal/observability"
)

const scanBatchSize = 100

// MatrixStore keeps matrices in Redis hashes under a common key prefix.
type MatrixStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewMatrixStore creates a new Redis matrix store. A zero ttl keeps matrices
// until they are replaced.
func NewMatrixStore(client *redis.Client, keyPrefix string, ttl time.Duration) *MatrixStore {
	return &MatrixStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (s *MatrixStore) key(name string) string {
	return s.keyPrefix + name
}

// Save stores the matrix JSON together with its entry count.
func (s *MatrixStore) Save(ctx context.Context, name string, matrix domain.Matrix) error {
	logger := observability.FromContext(ctx)

	data, err := json.Marshal(matrix)
	if err != nil {
		return fmt.Errorf("failed to marshal matrix: %w", err)
	}

	key := s.key(name)
	pipe := s.client.TxPipeline()

	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		"data", string(data),
		"entries", len(matrix),
		"stored_at", time.Now().Unix(),
	)

	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}

	if _, execErr := pipe.Exec(ctx); execErr != nil {
		logger.Error("matrix save failed",
			observability.String("key", key),
			observability.Error(execErr))
		return fmt.Errorf("failed to save matrix: %w", execErr)
	}

	logger.Debug("matrix saved",
		observability.String("key", key),
		observability.Int("entries", len(matrix)),
		observability.Int("data_size", len(data)))
	return nil
}

// Load returns the named matrix or domain.ErrMatrixNotFound.
func (s *MatrixStore) Load(ctx context.Context, name string) (domain.Matrix, error) {
	data, err := s.client.HGet(ctx, s.key(name), "data").Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrMatrixNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load matrix: %w", err)
	}

	var matrix domain.Matrix
	if unmarshalErr := json.Unmarshal([]byte(data), &matrix); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal matrix: %w", unmarshalErr)
	}
	return matrix, nil
}

// List scans for every key under the prefix.
func (s *MatrixStore) List(ctx context.Context) ([]string, error) {
	var names []string

	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), s.keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan matrices: %w", err)
	}

	slices.Sort(names)
	return slices.Compact(names), nil
}
