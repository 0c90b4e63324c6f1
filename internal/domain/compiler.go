package domain

import "fmt"

// Compile resolves every source into the flat list of conditions a record
// must satisfy to belong to it. Label i of a source is looked up in dimension
// i; the resolved conditions of all dimensions are concatenated, so a field
// constrained by two dimensions is checked against both values.
func Compile(sources []Source, dimensions []Dimension) ([]CompiledSource, error) {
	compiled := make([]CompiledSource, 0, len(sources))

	for _, source := range sources {
		if len(source) != len(dimensions) {
			return nil, fmt.Errorf("%w: source %v has %d labels, expected %d",
				ErrConfigurationShape, []string(source), len(source), len(dimensions))
		}

		var conditions []Condition
		for i, label := range source {
			condition, ok := dimensions[i].Lookup(label)
			if !ok {
				return nil, fmt.Errorf("%w: dimension %q has no label %q",
					ErrSchemaMismatch, dimensions[i].Name, label)
			}
			conditions = append(conditions, condition...)
		}

		compiled = append(compiled, CompiledSource{
			Source:     append(Source(nil), source...),
			Conditions: conditions,
		})
	}

	return compiled, nil
}

// CrossProduct returns every combination of labels, in declared dimension
// order and declared label order. No dimensions yields one empty source.
func CrossProduct(dimensions []Dimension) []Source {
	sources := []Source{{}}
	for _, d := range dimensions {
		next := make([]Source, 0, len(sources)*len(d.Labels))
		for _, prefix := range sources {
			for _, l := range d.Labels {
				source := make(Source, len(prefix), len(prefix)+1)
				copy(source, prefix)
				next = append(next, append(source, l.Name))
			}
		}
		sources = next
	}

	return sources
}
