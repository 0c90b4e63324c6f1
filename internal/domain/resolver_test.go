package domain_test

import (
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/pricematrix/internal/domain"
)

// catalogRow builds a record that passes the generic pre-conditions.
func catalogRow(instanceType, location, price string) map[string]string {
	return map[string]string{
		"Instance Type": instanceType,
		"Location":      location,
		"Tenancy":       "Shared",
		"PricePerUnit":  price,
	}
}

func records(rows ...map[string]string) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		for _, row := range rows {
			if !yield(domain.NewRecord(row), nil) {
				return
			}
		}
	}
}

func sharedTenancy() domain.EqualityCondition {
	return domain.EqualityCondition{{Field: "Tenancy", Value: "Shared"}}
}

func resolveMatrix(
	t *testing.T,
	rows []map[string]string,
	pre domain.EqualityCondition,
	sources []domain.Source,
	dimensions []domain.Dimension,
) (domain.Matrix, error) {
	t.Helper()

	compiled, err := domain.Compile(sources, dimensions)
	require.NoError(t, err)

	resolver := domain.NewResolver(domain.NewRowFilter("", ""))
	return domain.Assemble(resolver.Resolve(records(rows...), pre, compiled))
}

func TestResolve_TwoRegionsOneSize(t *testing.T) {
	dimensions := regionSizeDimensions()
	rows := []map[string]string{
		catalogRow("t3.small", "US West (Oregon)", "0.0256"),
		catalogRow("t3.small", "US East (N. Virginia)", "0.0208"),
		catalogRow("t3.large", "US East (N. Virginia)", "0.0832"),
	}

	matrix, err := resolveMatrix(t, rows, sharedTenancy(), domain.CrossProduct(dimensions), dimensions)
	require.NoError(t, err)

	require.Equal(t, domain.Matrix{
		{Labels: []string{"us-east-1", "small"}, Price: 0.0208},
		{Labels: []string{"us-west-2", "small"}, Price: 0.0256},
	}, matrix)

	for _, entry := range matrix {
		require.Len(t, entry.Labels, len(dimensions))
	}
}

func TestResolve_OverlappingSourcesEmitPerSource(t *testing.T) {
	dimensions := []domain.Dimension{
		{
			Name: "Tier",
			Labels: []domain.Label{
				{Name: "any-east", Condition: domain.EqualityCondition{{Field: "Location", Value: "US East (N. Virginia)"}}},
				{Name: "small-only", Condition: domain.EqualityCondition{{Field: "Instance Type", Value: "t3.small"}}},
			},
		},
	}
	rows := []map[string]string{catalogRow("t3.small", "US East (N. Virginia)", "0.0208")}

	matrix, err := resolveMatrix(t, rows, nil, domain.CrossProduct(dimensions), dimensions)
	require.NoError(t, err)

	require.Equal(t, domain.Matrix{
		{Labels: []string{"any-east"}, Price: 0.0208},
		{Labels: []string{"small-only"}, Price: 0.0208},
	}, matrix)
}

func TestResolve_DuplicateMatchesAreKept(t *testing.T) {
	dimensions := regionSizeDimensions()
	rows := []map[string]string{
		catalogRow("t3.small", "US East (N. Virginia)", "0.0300"),
		catalogRow("t3.small", "US East (N. Virginia)", "0.0208"),
	}

	matrix, err := resolveMatrix(t, rows, sharedTenancy(), []domain.Source{{"us-east-1", "small"}}, dimensions)
	require.NoError(t, err)

	// Same labels sort by price ascending.
	require.Equal(t, domain.Matrix{
		{Labels: []string{"us-east-1", "small"}, Price: 0.0208},
		{Labels: []string{"us-east-1", "small"}, Price: 0.03},
	}, matrix)
}

func TestResolve_PreConditionsExcludeRecords(t *testing.T) {
	dimensions := regionSizeDimensions()
	dedicated := catalogRow("t3.small", "US East (N. Virginia)", "0.0500")
	dedicated["Tenancy"] = "Dedicated"

	rows := []map[string]string{
		dedicated,
		catalogRow("t3.small", "US West (Oregon)", "0.0256"),
	}

	matrix, err := resolveMatrix(t, rows, sharedTenancy(), domain.CrossProduct(dimensions), dimensions)
	require.NoError(t, err)

	require.Equal(t, domain.Matrix{
		{Labels: []string{"us-west-2", "small"}, Price: 0.0256},
	}, matrix)
}

func TestResolve_IneligibleRecordsAreSkipped(t *testing.T) {
	dimensions := []domain.Dimension{
		{Name: "Region", Labels: []domain.Label{
			{Name: "us-east-1", Condition: domain.EqualityCondition{{Field: "Location", Value: "US East (N. Virginia)"}}},
		}},
	}
	rows := []map[string]string{
		catalogRow("", "US East (N. Virginia)", "0.0000"),
		catalogRow("", "US East (N. Virginia)", "0.0100"),
		// Zero price with an identifier stays eligible.
		catalogRow("t3.nano", "US East (N. Virginia)", "0.0000"),
	}

	matrix, err := resolveMatrix(t, rows, sharedTenancy(), domain.CrossProduct(dimensions), dimensions)
	require.NoError(t, err)

	require.Equal(t, domain.Matrix{
		{Labels: []string{"us-east-1"}, Price: 0},
		{Labels: []string{"us-east-1"}, Price: 0.01},
	}, matrix)
}

func TestResolve_ExplicitSourcesRestrictLabels(t *testing.T) {
	dimensions := regionSizeDimensions()
	rows := []map[string]string{
		catalogRow("t3.small", "US West (Oregon)", "0.0256"),
		catalogRow("t3.small", "US East (N. Virginia)", "0.0208"),
	}
	sources := []domain.Source{{"us-west-2", "small"}}

	matrix, err := resolveMatrix(t, rows, sharedTenancy(), sources, dimensions)
	require.NoError(t, err)

	for _, entry := range matrix {
		require.True(t, slices.ContainsFunc(sources, func(s domain.Source) bool {
			return slices.Equal(s, entry.Labels)
		}))
	}
	require.Len(t, matrix, 1)
}

func TestResolve_ConflictingDimensionsNeverMatch(t *testing.T) {
	dimensions := []domain.Dimension{
		{Name: "A", Labels: []domain.Label{{Name: "a", Condition: domain.EqualityCondition{{Field: "Tenancy", Value: "Shared"}}}}},
		{Name: "B", Labels: []domain.Label{{Name: "b", Condition: domain.EqualityCondition{{Field: "Tenancy", Value: "Dedicated"}}}}},
	}
	rows := []map[string]string{catalogRow("t3.small", "US East (N. Virginia)", "0.0208")}

	matrix, err := resolveMatrix(t, rows, nil, domain.CrossProduct(dimensions), dimensions)
	require.NoError(t, err)
	require.Empty(t, matrix)
}

func TestResolve_Errors(t *testing.T) {
	dimensions := regionSizeDimensions()
	compiled, err := domain.Compile(domain.CrossProduct(dimensions), dimensions)
	require.NoError(t, err)
	resolver := domain.NewResolver(domain.NewRowFilter("", ""))

	t.Run("malformed price on match aborts", func(t *testing.T) {
		rows := records(
			catalogRow("t3.small", "US East (N. Virginia)", "0.0208"),
			catalogRow("t3.small", "US West (Oregon)", "N/A"),
		)

		matrix, err := domain.Assemble(resolver.Resolve(rows, sharedTenancy(), compiled))
		require.ErrorIs(t, err, domain.ErrMalformedPrice)
		require.Nil(t, matrix)
	})

	t.Run("malformed price without match is ignored", func(t *testing.T) {
		rows := records(catalogRow("t3.small", "EU (Ireland)", "N/A"))

		matrix, err := domain.Assemble(resolver.Resolve(rows, sharedTenancy(), compiled))
		require.NoError(t, err)
		require.Empty(t, matrix)
	})

	t.Run("missing pre-condition field aborts", func(t *testing.T) {
		rows := records(catalogRow("t3.small", "US East (N. Virginia)", "0.0208"))
		pre := domain.EqualityCondition{{Field: "Operating System", Value: "Linux"}}

		_, err := domain.Assemble(resolver.Resolve(rows, pre, compiled))
		require.ErrorIs(t, err, domain.ErrSchemaMismatch)
	})

	t.Run("record source error aborts", func(t *testing.T) {
		sourceErr := errors.New("disk on fire")
		rows := func(yield func(domain.Record, error) bool) {
			if !yield(domain.NewRecord(catalogRow("t3.small", "US East (N. Virginia)", "0.0208")), nil) {
				return
			}
			yield(domain.Record{}, sourceErr)
		}

		_, err := domain.Assemble(resolver.Resolve(rows, sharedTenancy(), compiled))
		require.ErrorIs(t, err, sourceErr)
	})
}

func TestResolve_IsLazyAndSinglePass(t *testing.T) {
	dimensions := regionSizeDimensions()
	compiled, err := domain.Compile(domain.CrossProduct(dimensions), dimensions)
	require.NoError(t, err)

	var read int
	rows := func(yield func(domain.Record, error) bool) {
		for _, row := range []map[string]string{
			catalogRow("t3.small", "US East (N. Virginia)", "0.0208"),
			catalogRow("t3.small", "US West (Oregon)", "0.0256"),
		} {
			read++
			if !yield(domain.NewRecord(row), nil) {
				return
			}
		}
	}

	entries := domain.NewResolver(domain.NewRowFilter("", "")).Resolve(rows, sharedTenancy(), compiled)
	require.Zero(t, read)

	for entry, err := range entries {
		require.NoError(t, err)
		require.Equal(t, []string{"us-east-1", "small"}, entry.Labels)
		break
	}
	require.Equal(t, 1, read)
}

func TestAssemble_SortsLexicographically(t *testing.T) {
	entries := func(yield func(domain.Entry, error) bool) {
		for _, e := range []domain.Entry{
			{Labels: []string{"b", "a"}, Price: 1},
			{Labels: []string{"a", "b"}, Price: 3},
			{Labels: []string{"a", "b"}, Price: 2},
			{Labels: []string{"a", "a"}, Price: 9},
			{Labels: []string{"B", "z"}, Price: 0},
		} {
			if !yield(e, nil) {
				return
			}
		}
	}

	matrix, err := domain.Assemble(entries)
	require.NoError(t, err)

	require.Equal(t, domain.Matrix{
		{Labels: []string{"B", "z"}, Price: 0},
		{Labels: []string{"a", "a"}, Price: 9},
		{Labels: []string{"a", "b"}, Price: 2},
		{Labels: []string{"a", "b"}, Price: 3},
		{Labels: []string{"b", "a"}, Price: 1},
	}, matrix)

	for i := 1; i < len(matrix); i++ {
		require.LessOrEqual(t, domain.CompareEntries(matrix[i-1], matrix[i]), 0)
	}
}
