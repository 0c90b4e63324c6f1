package plan

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/davidbz/pricematrix/internal/domain"
)

// parseJSON walks the document with gjson, whose ForEach visits object keys
// in document order.
func parseJSON(data []byte) (*document, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("plan must be a JSON object")
	}

	doc := &document{}

	if meter := root.Get("meter_api_name"); meter.Exists() {
		if meter.Type != gjson.String {
			return nil, errors.New("meter_api_name must be a string")
		}
		doc.MeterAPIName = meter.Str
	}

	dimensions, err := jsonDimensions(root.Get("conditions"))
	if err != nil {
		return nil, err
	}
	doc.Dimensions = dimensions

	if sources := root.Get("sources"); sources.Exists() && sources.Type != gjson.Null {
		doc.Sources, err = jsonSources(sources)
		if err != nil {
			return nil, err
		}
	}

	if pre := root.Get("pre_conditions"); pre.Exists() && pre.Type != gjson.Null {
		doc.PreConditions, err = jsonCondition("pre_conditions", pre)
		if err != nil {
			return nil, err
		}
	}

	if override := root.Get("product_plan_override"); override.IsObject() {
		m, ok := override.Value().(map[string]interface{})
		if ok {
			doc.ProductPlanOverride = m
		}
	}

	return doc, nil
}

func jsonDimensions(conditions gjson.Result) ([]domain.Dimension, error) {
	if !conditions.IsObject() {
		return nil, fmt.Errorf("%w: conditions must be an object", domain.ErrSchemaMismatch)
	}

	var (
		dimensions []domain.Dimension
		err        error
	)

	conditions.ForEach(func(name, labels gjson.Result) bool {
		if !labels.IsObject() {
			err = fmt.Errorf("conditions.%s must be an object", name.Str)
			return false
		}

		dimension := domain.Dimension{Name: name.Str}
		labels.ForEach(func(label, fields gjson.Result) bool {
			var condition domain.EqualityCondition
			condition, err = jsonCondition("conditions."+name.Str+"."+label.Str, fields)
			if err != nil {
				return false
			}
			dimension.Labels = append(dimension.Labels, domain.Label{Name: label.Str, Condition: condition})
			return true
		})
		if err != nil {
			return false
		}

		dimensions = append(dimensions, dimension)
		return true
	})

	if err != nil {
		return nil, err
	}
	return dimensions, nil
}

func jsonCondition(path string, fields gjson.Result) (domain.EqualityCondition, error) {
	if !fields.IsObject() {
		return nil, fmt.Errorf("%s must be an object", path)
	}

	condition := domain.EqualityCondition{}
	var err error
	fields.ForEach(func(field, value gjson.Result) bool {
		if value.Type != gjson.String {
			err = fmt.Errorf("%s.%s must be a string, got %s", path, field.Str, value.Type)
			return false
		}
		condition = append(condition, domain.Condition{Field: field.Str, Value: value.Str})
		return true
	})
	if err != nil {
		return nil, err
	}
	return condition, nil
}

func jsonSources(sources gjson.Result) ([]domain.Source, error) {
	if !sources.IsArray() {
		return nil, errors.New("sources must be an array")
	}

	var result []domain.Source
	for i, row := range sources.Array() {
		if !row.IsArray() {
			return nil, fmt.Errorf("sources[%d] must be an array", i)
		}
		source := domain.Source{}
		for j, label := range row.Array() {
			if label.Type != gjson.String {
				return nil, fmt.Errorf("sources[%d][%d] must be a string", i, j)
			}
			source = append(source, label.Str)
		}
		result = append(result, source)
	}
	return result, nil
}
