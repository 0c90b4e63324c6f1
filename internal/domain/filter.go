package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultIDField is the catalog column identifying the priced resource.
	DefaultIDField = "Instance Type"

	// DefaultPriceField is the catalog column carrying the unit price.
	DefaultPriceField = "PricePerUnit"
)

// ParsePrice parses a decimal price string.
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %w", ErrMalformedPrice, raw, err)
	}
	return price, nil
}

// RowFilter decides whether catalog records take part in matching.
type RowFilter struct {
	idField    string
	priceField string
}

// NewRowFilter creates a filter over the given identifier and price columns.
// Empty names fall back to the defaults.
func NewRowFilter(idField, priceField string) RowFilter {
	if idField == "" {
		idField = DefaultIDField
	}
	if priceField == "" {
		priceField = DefaultPriceField
	}
	return RowFilter{idField: idField, priceField: priceField}
}

// IsEligible reports whether a record has a non-empty identifier or a
// positive price. The price is only inspected when the identifier is empty.
func (f RowFilter) IsEligible(record Record) (bool, error) {
	id, err := record.Field(f.idField)
	if err != nil {
		return false, err
	}
	if id != "" {
		return true, nil
	}

	price, err := f.Price(record)
	if err != nil {
		return false, err
	}
	return price > 0, nil
}

// Satisfies reports whether every condition equals the record's field value.
func (f RowFilter) Satisfies(record Record, conditions []Condition) (bool, error) {
	for _, c := range conditions {
		value, err := record.Field(c.Field)
		if err != nil {
			return false, err
		}
		if value != c.Value {
			return false, nil
		}
	}
	return true, nil
}

// Price returns the record's parsed unit price.
func (f RowFilter) Price(record Record) (float64, error) {
	raw, err := record.Field(f.priceField)
	if err != nil {
		return 0, err
	}

	price, err := ParsePrice(raw)
	if err != nil {
		return 0, err
	}
	return price.InexactFloat64(), nil
}
