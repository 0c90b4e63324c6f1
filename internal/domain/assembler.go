package domain

import (
	"cmp"
	"iter"
	"slices"
)

// Assemble drains the entry sequence and sorts it. No matrix is returned
// when the sequence yields an error.
func Assemble(entries iter.Seq2[Entry, error]) (Matrix, error) {
	var matrix Matrix
	for entry, err := range entries {
		if err != nil {
			return nil, err
		}
		matrix = append(matrix, entry)
	}

	slices.SortFunc(matrix, CompareEntries)
	return matrix, nil
}

// CompareEntries orders entries by labels, then by price.
func CompareEntries(a, b Entry) int {
	if c := slices.Compare(a.Labels, b.Labels); c != 0 {
		return c
	}
	return cmp.Compare(a.Price, b.Price)
}
