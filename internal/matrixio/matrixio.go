// Package matrixio reads and writes price matrices as JSON arrays of
// [label, ..., price] rows.
package matrixio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/davidbz/pricematrix/internal/domain"
)

const indent = "    "

// Encode writes the matrix with one row element per line, indented by four
// spaces. An empty matrix is written as [].
func Encode(w io.Writer, matrix domain.Matrix) error {
	if matrix == nil {
		matrix = domain.Matrix{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(matrix); err != nil {
		return fmt.Errorf("failed to encode matrix: %w", err)
	}
	return nil
}

// Decode reads a matrix written by Encode.
func Decode(r io.Reader) (domain.Matrix, error) {
	var matrix domain.Matrix
	if err := json.NewDecoder(r).Decode(&matrix); err != nil {
		return nil, fmt.Errorf("failed to decode matrix: %w", err)
	}
	return matrix, nil
}

// WriteFile encodes the matrix to path, replacing any existing file.
func WriteFile(path string, matrix domain.Matrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	return Encode(f, matrix)
}

// ReadFile decodes the matrix stored at path.
func ReadFile(path string) (domain.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	matrix, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return matrix, nil
}
