package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/pricematrix/internal/domain"
)

func regionSizeDimensions() []domain.Dimension {
	return []domain.Dimension{
		{
			Name: "Region",
			Labels: []domain.Label{
				{Name: "us-east-1", Condition: domain.EqualityCondition{{Field: "Location", Value: "US East (N. Virginia)"}}},
				{Name: "us-west-2", Condition: domain.EqualityCondition{{Field: "Location", Value: "US West (Oregon)"}}},
			},
		},
		{
			Name: "Size",
			Labels: []domain.Label{
				{Name: "small", Condition: domain.EqualityCondition{{Field: "Instance Type", Value: "t3.small"}}},
			},
		},
	}
}

func TestCompile(t *testing.T) {
	dimensions := regionSizeDimensions()

	compiled, err := domain.Compile([]domain.Source{{"us-west-2", "small"}}, dimensions)
	require.NoError(t, err)
	require.Len(t, compiled, 1)
	require.Equal(t, domain.Source{"us-west-2", "small"}, compiled[0].Source)
	require.ElementsMatch(t, []domain.Condition{
		{Field: "Location", Value: "US West (Oregon)"},
		{Field: "Instance Type", Value: "t3.small"},
	}, compiled[0].Conditions)
}

func TestCompile_KeepsDuplicateFields(t *testing.T) {
	dimensions := []domain.Dimension{
		{Name: "A", Labels: []domain.Label{{Name: "a", Condition: domain.EqualityCondition{{Field: "Tenancy", Value: "Shared"}}}}},
		{Name: "B", Labels: []domain.Label{{Name: "b", Condition: domain.EqualityCondition{{Field: "Tenancy", Value: "Dedicated"}}}}},
	}

	compiled, err := domain.Compile([]domain.Source{{"a", "b"}}, dimensions)
	require.NoError(t, err)
	require.Len(t, compiled[0].Conditions, 2)
}

func TestCompile_Errors(t *testing.T) {
	dimensions := regionSizeDimensions()

	t.Run("source too short", func(t *testing.T) {
		_, err := domain.Compile([]domain.Source{{"us-east-1"}}, dimensions)
		require.ErrorIs(t, err, domain.ErrConfigurationShape)
	})

	t.Run("source too long", func(t *testing.T) {
		_, err := domain.Compile([]domain.Source{{"us-east-1", "small", "extra"}}, dimensions)
		require.ErrorIs(t, err, domain.ErrConfigurationShape)
	})

	t.Run("unknown label", func(t *testing.T) {
		_, err := domain.Compile([]domain.Source{{"eu-west-1", "small"}}, dimensions)
		require.ErrorIs(t, err, domain.ErrSchemaMismatch)
		require.Contains(t, err.Error(), "eu-west-1")
	})
}

func TestCompile_DoesNotAliasSources(t *testing.T) {
	source := domain.Source{"us-east-1", "small"}
	compiled, err := domain.Compile([]domain.Source{source}, regionSizeDimensions())
	require.NoError(t, err)

	source[0] = "mutated"
	require.Equal(t, "us-east-1", compiled[0].Source[0])
}

func TestCrossProduct(t *testing.T) {
	dimensions := append(regionSizeDimensions(), domain.Dimension{
		Name: "OS",
		Labels: []domain.Label{
			{Name: "linux"},
			{Name: "windows"},
		},
	})

	require.Equal(t, []domain.Source{
		{"us-east-1", "small", "linux"},
		{"us-east-1", "small", "windows"},
		{"us-west-2", "small", "linux"},
		{"us-west-2", "small", "windows"},
	}, domain.CrossProduct(dimensions))

	t.Run("no dimensions yields one empty source", func(t *testing.T) {
		require.Equal(t, []domain.Source{{}}, domain.CrossProduct(nil))
	})

	t.Run("dimension without labels yields nothing", func(t *testing.T) {
		require.Empty(t, domain.CrossProduct([]domain.Dimension{{Name: "Empty"}}))
	})
}
