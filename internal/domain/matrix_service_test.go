package domain_test

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/pricematrix/internal/domain"
	"github.com/davidbz/pricematrix/internal/mocks"
)

// sliceSource is an in-memory catalog.
type sliceSource struct {
	rows []map[string]string
}

func (s *sliceSource) Records(_ context.Context) iter.Seq2[domain.Record, error] {
	return records(s.rows...)
}

func (s *sliceSource) Name() string {
	return "slice"
}

func testPlan() *domain.Plan {
	dimensions := regionSizeDimensions()
	return &domain.Plan{
		MeterAPIName:  "ec2-cost",
		Dimensions:    dimensions,
		Sources:       domain.CrossProduct(dimensions),
		PreConditions: sharedTenancy(),
	}
}

func newService(store domain.MatrixStore, events domain.EventPublisher) *domain.MatrixService {
	return domain.NewMatrixService(domain.NewResolver(domain.NewRowFilter("", "")), store, events)
}

func TestMatrixService_Build(t *testing.T) {
	ctx := context.Background()

	t.Run("should resolve and publish event", func(t *testing.T) {
		events := mocks.NewMockEventPublisher(t)
		events.EXPECT().
			Publish(mock.Anything, "matrix.resolved", map[string]interface{}{
				"meter":   "ec2-cost",
				"sources": 2,
				"entries": 2,
			}).
			Return()

		service := newService(nil, events)
		source := &sliceSource{rows: []map[string]string{
			catalogRow("t3.small", "US West (Oregon)", "0.0256"),
			catalogRow("t3.small", "US East (N. Virginia)", "0.0208"),
		}}

		matrix, err := service.Build(ctx, testPlan(), source)
		require.NoError(t, err)
		require.Equal(t, domain.Matrix{
			{Labels: []string{"us-east-1", "small"}, Price: 0.0208},
			{Labels: []string{"us-west-2", "small"}, Price: 0.0256},
		}, matrix)
	})

	t.Run("should fail before reading on shape errors", func(t *testing.T) {
		service := newService(nil, nil)
		p := testPlan()
		p.Sources = []domain.Source{{"us-east-1"}}

		_, err := service.Build(ctx, p, &sliceSource{})
		require.ErrorIs(t, err, domain.ErrConfigurationShape)
	})

	t.Run("should propagate resolution errors", func(t *testing.T) {
		service := newService(nil, nil)
		source := &sliceSource{rows: []map[string]string{{"Instance Type": "t3.small"}}}

		matrix, err := service.Build(ctx, testPlan(), source)
		require.ErrorIs(t, err, domain.ErrSchemaMismatch)
		require.Nil(t, matrix)
	})

	t.Run("should reject nil inputs", func(t *testing.T) {
		service := newService(nil, nil)

		_, err := service.Build(ctx, nil, &sliceSource{})
		require.Error(t, err)

		_, err = service.Build(ctx, testPlan(), nil)
		require.Error(t, err)
	})
}

func TestMatrixService_Store(t *testing.T) {
	ctx := context.Background()
	matrix := domain.Matrix{{Labels: []string{"us-east-1", "small"}, Price: 0.0208}}

	t.Run("should save through the store", func(t *testing.T) {
		store := mocks.NewMockMatrixStore(t)
		store.EXPECT().Save(mock.Anything, "ec2-cost", matrix).Return(nil)

		err := newService(store, nil).Store(ctx, "ec2-cost", matrix)
		require.NoError(t, err)
	})

	t.Run("should wrap store errors", func(t *testing.T) {
		store := mocks.NewMockMatrixStore(t)
		store.EXPECT().Save(mock.Anything, "ec2-cost", matrix).Return(errors.New("connection refused"))

		err := newService(store, nil).Store(ctx, "ec2-cost", matrix)
		require.Error(t, err)
		require.Contains(t, err.Error(), "connection refused")
	})

	t.Run("should fail without a store", func(t *testing.T) {
		err := newService(nil, nil).Store(ctx, "ec2-cost", matrix)
		require.Error(t, err)
	})

	t.Run("should reject empty names", func(t *testing.T) {
		err := newService(mocks.NewMockMatrixStore(t), nil).Store(ctx, "", matrix)
		require.Error(t, err)
	})
}

func TestMatrixService_GetAndList(t *testing.T) {
	ctx := context.Background()

	t.Run("should keep not found errors inspectable", func(t *testing.T) {
		store := mocks.NewMockMatrixStore(t)
		store.EXPECT().Load(mock.Anything, "missing").Return(nil, domain.ErrMatrixNotFound)

		_, err := newService(store, nil).Get(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrMatrixNotFound)
	})

	t.Run("should list stored names", func(t *testing.T) {
		store := mocks.NewMockMatrixStore(t)
		store.EXPECT().List(mock.Anything).Return([]string{"a", "b"}, nil)

		names, err := newService(store, nil).List(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, names)
	})
}
