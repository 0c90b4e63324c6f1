package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Condition is a single field=value requirement on a catalog record.
type Condition struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// EqualityCondition is an ordered set of field=value requirements.
type EqualityCondition []Condition

// Label maps one dimension value to the condition a record must meet for it.
type Label struct {
	Name      string
	Condition EqualityCondition
}

// Dimension is a named axis of billing variation with ordered labels.
type Dimension struct {
	Name   string
	Labels []Label
}

// Lookup returns the condition registered for a label.
func (d Dimension) Lookup(label string) (EqualityCondition, bool) {
	for _, l := range d.Labels {
		if l.Name == label {
			return l.Condition, true
		}
	}
	return nil, false
}

// LabelNames returns the dimension's labels in declared order.
func (d Dimension) LabelNames() []string {
	names := make([]string, 0, len(d.Labels))
	for _, l := range d.Labels {
		names = append(names, l.Name)
	}
	return names
}

// Source identifies one cell of the price matrix: one label per dimension.
type Source []string

// String renders the source as a slash separated label path.
func (s Source) String() string {
	return strings.Join(s, "/")
}

// CompiledSource pairs a source with the flattened conditions of its labels.
type CompiledSource struct {
	Source     Source
	Conditions []Condition
}

// Plan is the read-only configuration of a single matrix run.
type Plan struct {
	MeterAPIName        string
	Dimensions          []Dimension
	Sources             []Source
	PreConditions       EqualityCondition
	ProductPlanOverride map[string]any
}

// DimensionNames returns the plan's dimension names in declared order.
func (p *Plan) DimensionNames() []string {
	names := make([]string, 0, len(p.Dimensions))
	for _, d := range p.Dimensions {
		names = append(names, d.Name)
	}
	return names
}

// Entry is one resolved row of the price matrix.
type Entry struct {
	Labels []string
	Price  float64
}

// MarshalJSON encodes the entry as ["label", ..., price].
func (e Entry) MarshalJSON() ([]byte, error) {
	row := make([]any, 0, len(e.Labels)+1)
	for _, l := range e.Labels {
		row = append(row, l)
	}
	row = append(row, e.Price)

	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal matrix entry: %w", err)
	}
	return data, nil
}

// UnmarshalJSON decodes an entry from ["label", ..., price].
func (e *Entry) UnmarshalJSON(data []byte) error {
	var row []json.RawMessage
	if err := json.Unmarshal(data, &row); err != nil {
		return fmt.Errorf("matrix entry must be an array: %w", err)
	}
	if len(row) == 0 {
		return errors.New("matrix entry cannot be empty")
	}

	labels := make([]string, 0, len(row)-1)
	for _, raw := range row[:len(row)-1] {
		var label string
		if err := json.Unmarshal(raw, &label); err != nil {
			return fmt.Errorf("matrix entry label must be a string: %w", err)
		}
		labels = append(labels, label)
	}

	var price float64
	last := bytes.TrimSpace(row[len(row)-1])
	if err := json.Unmarshal(last, &price); err != nil {
		return fmt.Errorf("matrix entry price must be a number: %w", err)
	}

	e.Labels = labels
	e.Price = price
	return nil
}

// Matrix is the full, sorted set of entries produced by one run.
type Matrix []Entry
