package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/pricematrix/internal/catalog"
	"github.com/davidbz/pricematrix/internal/domain"
)

const preamble = `"FormatVersion","v1.0"
"Disclaimer","This pricing list is for informational purposes only."
"Publication Date","2024-01-01T00:00:00Z"
"Version","20240101000000"
"OfferCode","AmazonEC2"
`

func writeCatalog(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func collect(t *testing.T, source domain.RecordSource) ([]domain.Record, error) {
	t.Helper()

	var out []domain.Record
	for record, err := range source.Records(context.Background()) {
		if err != nil {
			return out, err
		}
		out = append(out, record)
	}
	return out, nil
}

func field(t *testing.T, r domain.Record, name string) string {
	t.Helper()

	v, err := r.Field(name)
	require.NoError(t, err)
	return v
}

func TestFileSource_SkipsPreamble(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, "ec2.csv", preamble+
		`"SKU","Instance Type","Location","PricePerUnit"
"AAA","t3.small","US East (N. Virginia)","0.0208000000"
"BBB","t3.small","US West (Oregon)","0.0256000000"
`)

	records, err := collect(t, catalog.NewFileSource(path, catalog.DefaultSkipLines))
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "t3.small", field(t, records[0], "Instance Type"))
	require.Equal(t, "US West (Oregon)", field(t, records[1], "Location"))
	require.Equal(t, "0.0256000000", field(t, records[1], "PricePerUnit"))
}

func TestFileSource_GlobReadsFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "b/prices.csv", "Instance Type,PricePerUnit\nt3.large,0.0832\n")
	writeCatalog(t, dir, "a/prices.csv", "Instance Type,PricePerUnit\nt3.small,0.0208\n")
	writeCatalog(t, dir, "a/readme.txt", "not a catalog")

	source := catalog.NewFileSource(filepath.Join(dir, "**", "*.csv"), 0)

	paths, err := source.Paths()
	require.NoError(t, err)
	require.Len(t, paths, 2)
	require.True(t, strings.HasSuffix(paths[0], filepath.Join("a", "prices.csv")))

	records, err := collect(t, source)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "t3.small", field(t, records[0], "Instance Type"))
	require.Equal(t, "t3.large", field(t, records[1], "Instance Type"))
}

func TestFileSource_StripsBOMWithoutPreamble(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, "bom.csv", "\ufeffInstance Type,PricePerUnit\nt3.small,0.0208\n")

	records, err := collect(t, catalog.NewFileSource(path, 0))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].Has("Instance Type"))
}

func TestFileSource_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("no matching files", func(t *testing.T) {
		_, err := collect(t, catalog.NewFileSource(filepath.Join(dir, "*.csv"), 0))
		require.Error(t, err)
		require.Contains(t, err.Error(), "no catalog files match")
	})

	t.Run("empty pattern", func(t *testing.T) {
		_, err := collect(t, catalog.NewFileSource("", 0))
		require.Error(t, err)
	})

	t.Run("short preamble", func(t *testing.T) {
		path := writeCatalog(t, dir, "short.csv", "\"FormatVersion\",\"v1.0\"\n")
		_, err := collect(t, catalog.NewFileSource(path, catalog.DefaultSkipLines))
		require.ErrorIs(t, err, domain.ErrSchemaMismatch)
	})

	t.Run("ragged row", func(t *testing.T) {
		path := writeCatalog(t, dir, "ragged.csv", "Instance Type,PricePerUnit\nt3.small\n")
		records, err := collect(t, catalog.NewFileSource(path, 0))
		require.ErrorIs(t, err, domain.ErrSchemaMismatch)
		require.Empty(t, records)
	})
}

func TestFileSource_EmptyFileYieldsNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, "empty.csv", "")

	records, err := collect(t, catalog.NewFileSource(path, 0))
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestFileSource_StopsEarly(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, "many.csv", "Instance Type\na\nb\nc\n")

	var seen []string
	for record, err := range catalog.NewFileSource(path, 0).Records(context.Background()) {
		require.NoError(t, err)
		seen = append(seen, field(t, record, "Instance Type"))
		if len(seen) == 2 {
			break
		}
	}
	require.Equal(t, []string{"a", "b"}, seen)
}
