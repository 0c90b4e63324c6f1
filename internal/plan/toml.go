package plan

import (
	"fmt"
	"maps"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/davidbz/pricematrix/internal/domain"
)

// parseTOML decodes into generic maps and recovers key order from the
// decoder metadata.
func parseTOML(data []byte) (*document, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}

	order := newKeyOrder(md.Keys())
	doc := &document{}

	if meter, ok := raw["meter_api_name"]; ok {
		doc.MeterAPIName, err = stringValue("meter_api_name", meter)
		if err != nil {
			return nil, err
		}
	}

	conditions, ok := raw["conditions"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: conditions must be a table", domain.ErrSchemaMismatch)
	}

	for _, name := range order.children(conditions, "conditions") {
		labels, isTable := conditions[name].(map[string]any)
		if !isTable {
			return nil, fmt.Errorf("conditions.%s must be a table", name)
		}

		dimension := domain.Dimension{Name: name}
		for _, label := range order.children(labels, "conditions", name) {
			condition, condErr := tomlCondition(order, labels[label], "conditions", name, label)
			if condErr != nil {
				return nil, condErr
			}
			dimension.Labels = append(dimension.Labels, domain.Label{Name: label, Condition: condition})
		}
		doc.Dimensions = append(doc.Dimensions, dimension)
	}

	if sources, ok := raw["sources"]; ok {
		doc.Sources, err = tomlSources(sources)
		if err != nil {
			return nil, err
		}
	}

	if pre, ok := raw["pre_conditions"]; ok {
		doc.PreConditions, err = tomlCondition(order, pre, "pre_conditions")
		if err != nil {
			return nil, err
		}
	}

	if override, ok := raw["product_plan_override"].(map[string]any); ok {
		doc.ProductPlanOverride = override
	}

	return doc, nil
}

func tomlCondition(order keyOrder, value any, path ...string) (domain.EqualityCondition, error) {
	fields, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a table", toml.Key(path))
	}

	condition := domain.EqualityCondition{}
	for _, field := range order.children(fields, path...) {
		s, err := stringValue(toml.Key(append(slices.Clone(path), field)).String(), fields[field])
		if err != nil {
			return nil, err
		}
		condition = append(condition, domain.Condition{Field: field, Value: s})
	}
	return condition, nil
}

func tomlSources(value any) ([]domain.Source, error) {
	rows, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("sources must be an array, got %T", value)
	}

	var sources []domain.Source
	for i, row := range rows {
		labels, isArray := row.([]any)
		if !isArray {
			return nil, fmt.Errorf("sources[%d] must be an array", i)
		}
		source := domain.Source{}
		for j, label := range labels {
			s, err := stringValue(fmt.Sprintf("sources[%d][%d]", i, j), label)
			if err != nil {
				return nil, err
			}
			source = append(source, s)
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// keyOrder records the position at which each key path was first defined.
// Tables created implicitly by a deeper header such as [a.b.c] take the
// position of that header.
type keyOrder map[string]int

func newKeyOrder(keys []toml.Key) keyOrder {
	order := make(keyOrder, len(keys))
	for i, k := range keys {
		for depth := 1; depth <= len(k); depth++ {
			prefix := k[:depth].String()
			if _, seen := order[prefix]; !seen {
				order[prefix] = i
			}
		}
	}
	return order
}

// children returns the keys of table in definition order. Keys the metadata
// does not know about sort last, alphabetically.
func (o keyOrder) children(table map[string]any, path ...string) []string {
	keys := slices.Sorted(maps.Keys(table))
	slices.SortStableFunc(keys, func(a, b string) int {
		pa, okA := o[toml.Key(append(slices.Clone(path), a)).String()]
		pb, okB := o[toml.Key(append(slices.Clone(path), b)).String()]
		switch {
		case okA && okB:
			return pa - pb
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
	return keys
}
