package domain

import "iter"

// Resolver matches catalog records against compiled sources.
type Resolver struct {
	filter RowFilter
}

// NewResolver creates a resolver using the given row filter.
func NewResolver(filter RowFilter) *Resolver {
	return &Resolver{filter: filter}
}

// Resolve returns a single-pass sequence of matrix entries. Records are read
// once, in catalog order; every compiled source is tested against every
// record that is eligible and meets the pre-conditions, and each match yields
// one entry. The first error is yielded and ends the sequence.
func (r *Resolver) Resolve(
	records iter.Seq2[Record, error],
	preConditions EqualityCondition,
	compiled []CompiledSource,
) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for record, err := range records {
			if err != nil {
				yield(Entry{}, err)
				return
			}

			ok, err := r.accepts(record, preConditions)
			if err != nil {
				yield(Entry{}, err)
				return
			}
			if !ok {
				continue
			}

			if !r.match(record, compiled, yield) {
				return
			}
		}
	}
}

func (r *Resolver) accepts(record Record, preConditions EqualityCondition) (bool, error) {
	eligible, err := r.filter.IsEligible(record)
	if err != nil || !eligible {
		return false, err
	}
	return r.filter.Satisfies(record, preConditions)
}

// match yields an entry per matching source and reports whether iteration
// should continue.
func (r *Resolver) match(record Record, compiled []CompiledSource, yield func(Entry, error) bool) bool {
	var (
		price  float64
		parsed bool
	)

	for _, cs := range compiled {
		ok, err := r.filter.Satisfies(record, cs.Conditions)
		if err != nil {
			yield(Entry{}, err)
			return false
		}
		if !ok {
			continue
		}

		if !parsed {
			price, err = r.filter.Price(record)
			if err != nil {
				yield(Entry{}, err)
				return false
			}
			parsed = true
		}

		labels := make([]string, len(cs.Source))
		copy(labels, cs.Source)
		if !yield(Entry{Labels: labels, Price: price}, nil) {
			return false
		}
	}

	return true
}
