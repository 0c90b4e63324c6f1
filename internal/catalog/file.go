// Package catalog reads raw price-list records.
package catalog

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/davidbz/pricematrix/internal/domain"
	"github.com/davidbz/pricematrix/internal/observability"
)

// DefaultSkipLines is the size of the metadata preamble that precedes the
// header row in bulk price-list CSV files.
const DefaultSkipLines = 5

const utf8BOM = "\ufeff"

// FileSource streams records from every CSV file matching a glob pattern.
// Files are read in lexical path order as one catalog.
type FileSource struct {
	pattern   string
	skipLines int
}

// NewFileSource creates a file source. The pattern may be a plain path or a
// doublestar glob such as "prices/**/*.csv".
func NewFileSource(pattern string, skipLines int) *FileSource {
	return &FileSource{
		pattern:   pattern,
		skipLines: skipLines,
	}
}

// Name returns the source pattern.
func (s *FileSource) Name() string {
	return s.pattern
}

// Paths returns the files matching the pattern in lexical order.
func (s *FileSource) Paths() ([]string, error) {
	if s.pattern == "" {
		return nil, errors.New("catalog pattern cannot be empty")
	}

	paths, err := doublestar.FilepathGlob(s.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid catalog pattern %q: %w", s.pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files match %q", s.pattern)
	}

	slices.Sort(paths)
	return paths, nil
}

// Records returns the catalog records. Each file is opened when reached and
// closed before the next one is opened.
func (s *FileSource) Records(ctx context.Context) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		paths, err := s.Paths()
		if err != nil {
			yield(domain.Record{}, err)
			return
		}

		logger := observability.FromContext(ctx)
		for _, path := range paths {
			logger.Debug("reading catalog file", observability.String("path", path))
			if !s.readFile(ctx, path, yield) {
				return
			}
		}
	}
}

func (s *FileSource) readFile(ctx context.Context, path string, yield func(domain.Record, error) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		yield(domain.Record{}, fmt.Errorf("failed to open catalog: %w", err))
		return false
	}
	defer f.Close()

	return ReadCSV(ctx, f, s.skipLines, path)(yield)
}

// ReadCSV returns a push iterator over the records of one CSV stream. The
// first skipLines lines are discarded, the next row is the header. The
// returned function reports whether the consumer wants more records.
func ReadCSV(
	ctx context.Context,
	r io.Reader,
	skipLines int,
	name string,
) func(yield func(domain.Record, error) bool) bool {
	return func(yield func(domain.Record, error) bool) bool {
		fail := func(err error) bool {
			yield(domain.Record{}, err)
			return false
		}

		br := bufio.NewReader(r)
		for i := 0; i < skipLines; i++ {
			if _, err := br.ReadString('\n'); err != nil {
				if errors.Is(err, io.EOF) {
					return fail(fmt.Errorf("%w: %s ends inside its %d line preamble",
						domain.ErrSchemaMismatch, name, skipLines))
				}
				return fail(fmt.Errorf("failed to read %s: %w", name, err))
			}
		}

		reader := csv.NewReader(br)
		reader.ReuseRecord = true

		header, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return true
		}
		if err != nil {
			return fail(fmt.Errorf("failed to read header of %s: %w", name, err))
		}
		header = slices.Clone(header)
		if len(header) > 0 {
			header[0] = strings.TrimPrefix(header[0], utf8BOM)
		}

		for {
			if err := ctx.Err(); err != nil {
				return fail(err)
			}

			row, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return true
			}
			if errors.Is(err, csv.ErrFieldCount) {
				return fail(fmt.Errorf("%w: %s: %w", domain.ErrSchemaMismatch, name, err))
			}
			if err != nil {
				return fail(fmt.Errorf("failed to read %s: %w", name, err))
			}

			fields := make(map[string]string, len(header))
			for i, column := range header {
				fields[column] = row[i]
			}
			if !yield(domain.NewRecord(fields), nil) {
				return false
			}
		}
	}
}
