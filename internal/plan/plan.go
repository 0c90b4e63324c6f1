// Package plan loads matrix plans (dimensions, sources and pre-conditions)
// from JSON, YAML or TOML files. Dimension and label order follow the order
// in which they appear in the document.
package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davidbz/pricematrix/internal/domain"
)

// Format is a plan file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultPreConditions restricts the catalog to shared-tenancy, on-demand,
// Linux, used-capacity compute instances priced in USD.
func DefaultPreConditions() domain.EqualityCondition {
	return domain.EqualityCondition{
		{Field: "Product Family", Value: "Compute Instance"},
		{Field: "Operating System", Value: "Linux"},
		{Field: "LeaseContractLength", Value: ""},
		{Field: "TermType", Value: "OnDemand"},
		{Field: "Pre Installed S/W", Value: "NA"},
		{Field: "Tenancy", Value: "Shared"},
		{Field: "CapacityStatus", Value: "Used"},
		{Field: "Currency", Value: "USD"},
	}
}

// document is the format independent shape of a plan file.
type document struct {
	MeterAPIName        string
	Dimensions          []domain.Dimension
	Sources             []domain.Source
	PreConditions       domain.EqualityCondition
	ProductPlanOverride map[string]any
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported plan file extension: %q", filepath.Ext(path))
	}
}

// Load reads and parses a plan file.
func Load(path string) (*domain.Plan, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	p, err := Parse(format, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a plan. Missing sources default to the cross product of all
// dimension labels; missing pre-conditions default to DefaultPreConditions.
func Parse(format Format, data []byte) (*domain.Plan, error) {
	var (
		doc *document
		err error
	)

	switch format {
	case FormatJSON:
		doc, err = parseJSON(data)
	case FormatYAML:
		doc, err = parseYAML(data)
	case FormatTOML:
		doc, err = parseTOML(data)
	default:
		return nil, fmt.Errorf("unsupported plan format: %q", format)
	}
	if err != nil {
		return nil, err
	}

	return build(doc)
}

func build(doc *document) (*domain.Plan, error) {
	if len(doc.Dimensions) == 0 {
		return nil, fmt.Errorf("%w: plan declares no conditions", domain.ErrSchemaMismatch)
	}

	seen := make(map[string]struct{}, len(doc.Dimensions))
	for _, d := range doc.Dimensions {
		if d.Name == "" {
			return nil, errors.New("dimension name cannot be empty")
		}
		if _, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("dimension %q declared twice", d.Name)
		}
		seen[d.Name] = struct{}{}
	}

	sources := doc.Sources
	if len(sources) == 0 {
		sources = domain.CrossProduct(doc.Dimensions)
	}

	preConditions := doc.PreConditions
	if len(preConditions) == 0 {
		preConditions = DefaultPreConditions()
	}

	return &domain.Plan{
		MeterAPIName:        doc.MeterAPIName,
		Dimensions:          doc.Dimensions,
		Sources:             sources,
		PreConditions:       preConditions,
		ProductPlanOverride: doc.ProductPlanOverride,
	}, nil
}

func stringValue(path string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", path, value)
	}
	return s, nil
}
