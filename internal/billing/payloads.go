package billing

import (
	"maps"

	"github.com/davidbz/pricematrix/internal/domain"
)

const (
	lockingStatusOpen = "open"

	defaultProductPlanID = "raw-ec2-cost"
)

// PriceID names the product item price holding a meter's cost matrix.
func PriceID(meterAPIName string) string {
	return meterAPIName + "-cost-price"
}

// DimensionMatrixPrice builds a product item price with one flat per-unit
// tier for every matrix entry.
func DimensionMatrixPrice(productItemID, priceID string, dimensions []string, matrix domain.Matrix) map[string]any {
	dimensionsPrices := make([]any, 0, len(matrix))
	for _, entry := range matrix {
		dimensionsPrices = append(dimensionsPrices, map[string]any{
			"dimensionValues": entry.Labels,
			"leafNode": map[string]any{
				"type": "PricePerUnitLeafNode",
				"tiers": []any{
					map[string]any{
						"startAfterUnit": 0,
						"batchSize":      1,
						"pricePerBatch":  entry.Price,
					},
				},
				"allowPartialBatch": true,
			},
		})
	}

	return map[string]any{
		"id":                   priceID,
		"productItemId":        productItemID,
		"productItemPriceName": priceID,
		"lockingStatus":        lockingStatusOpen,
		"price": map[string]any{
			"type":             "DimensionMatrixNode",
			"dimensionKeys":    dimensions,
			"dimensionsPrices": dimensionsPrices,
		},
	}
}

// MergeItemPrice sets priceID in the price map of a product item, starting an
// open map when existing is nil. existing is not modified.
func MergeItemPrice(existing map[string]any, productItemID, priceID string, price map[string]any) map[string]any {
	prices := maps.Clone(existing)
	if prices == nil {
		prices = map[string]any{
			"productItemId":       productItemID,
			"productItemPriceMap": map[string]any{},
			"lockingStatus":       lockingStatusOpen,
		}
	}

	priceMap, _ := prices["productItemPriceMap"].(map[string]any)
	priceMap = maps.Clone(priceMap)
	if priceMap == nil {
		priceMap = map[string]any{}
	}
	priceMap[priceID] = price
	prices["productItemPriceMap"] = priceMap

	return prices
}

// ProductPlan returns the default monthly plan with override applied on top,
// billing productItemID through priceID.
func ProductPlan(override map[string]any, productItemID, priceID string) map[string]any {
	plan := map[string]any{
		"id":              defaultProductPlanID,
		"productPlanName": "Raw EC2 cost",
		"description":     "",
		"productId":       "1",
		"billingPeriod": map[string]any{
			"interval":       "month",
			"intervalsCount": 1,
		},
		"feeMap":        map[string]any{},
		"lockingStatus": lockingStatusOpen,
	}
	maps.Copy(plan, override)

	plan["productItemPriceIdsMap"] = map[string]any{
		productItemID: priceID,
	}
	return plan
}
