package plan

import (
	"errors"
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"

	"github.com/davidbz/pricematrix/internal/domain"
)

// parseYAML decodes into a node tree so mapping order is preserved.
func parseYAML(data []byte) (*document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("plan document is empty")
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, errors.New("plan must be a YAML mapping")
	}

	doc := &document{}
	var conditions *yaml.Node

	for key, value := range yamlPairs(top) {
		switch key.Value {
		case "meter_api_name":
			if err := value.Decode(&doc.MeterAPIName); err != nil {
				return nil, fmt.Errorf("meter_api_name: %w", err)
			}
		case "conditions":
			conditions = value
		case "sources":
			if isNull(value) {
				continue
			}
			var sources [][]string
			if err := value.Decode(&sources); err != nil {
				return nil, fmt.Errorf("sources: %w", err)
			}
			for _, s := range sources {
				doc.Sources = append(doc.Sources, domain.Source(s))
			}
		case "pre_conditions":
			if isNull(value) {
				continue
			}
			pre, err := yamlCondition("pre_conditions", value)
			if err != nil {
				return nil, err
			}
			doc.PreConditions = pre
		case "product_plan_override":
			if isNull(value) {
				continue
			}
			if err := value.Decode(&doc.ProductPlanOverride); err != nil {
				return nil, fmt.Errorf("product_plan_override: %w", err)
			}
		}
	}

	dimensions, err := yamlDimensions(conditions)
	if err != nil {
		return nil, err
	}
	doc.Dimensions = dimensions

	return doc, nil
}

func yamlDimensions(conditions *yaml.Node) ([]domain.Dimension, error) {
	if conditions == nil || conditions.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: conditions must be a mapping", domain.ErrSchemaMismatch)
	}

	var dimensions []domain.Dimension
	for name, labels := range yamlPairs(conditions) {
		if labels.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("conditions.%s must be a mapping", name.Value)
		}

		dimension := domain.Dimension{Name: name.Value}
		for label, fields := range yamlPairs(labels) {
			condition, err := yamlCondition("conditions."+name.Value+"."+label.Value, fields)
			if err != nil {
				return nil, err
			}
			dimension.Labels = append(dimension.Labels, domain.Label{Name: label.Value, Condition: condition})
		}
		dimensions = append(dimensions, dimension)
	}

	return dimensions, nil
}

func yamlCondition(path string, fields *yaml.Node) (domain.EqualityCondition, error) {
	if fields.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s must be a mapping", path)
	}

	condition := domain.EqualityCondition{}
	for field, value := range yamlPairs(fields) {
		if value.Kind != yaml.ScalarNode || value.Tag != "!!str" {
			return nil, fmt.Errorf("%s.%s must be a string", path, field.Value)
		}
		condition = append(condition, domain.Condition{Field: field.Value, Value: value.Value})
	}
	return condition, nil
}

// yamlPairs iterates a mapping node's key/value pairs in document order.
func yamlPairs(node *yaml.Node) iter.Seq2[*yaml.Node, *yaml.Node] {
	return func(yield func(*yaml.Node, *yaml.Node) bool) {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if !yield(node.Content[i], node.Content[i+1]) {
				return
			}
		}
	}
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
