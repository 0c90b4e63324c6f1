package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidbz/pricematrix/internal/domain"
	"github.com/davidbz/pricematrix/internal/observability"
)

var (
	// ErrMeterNotFound indicates no meter exists for the plan's meter API name.
	ErrMeterNotFound = errors.New("meter not found")

	// ErrProductItemNotFound indicates the meter has no product item.
	ErrProductItemNotFound = errors.New("product item not found")

	// ErrDimensionsMissing indicates the meter does not declare every plan dimension.
	ErrDimensionsMissing = errors.New("required dimensions not present in meter definition")
)

// API is the subset of the billing API used to publish a matrix.
type API interface {
	Meters(ctx context.Context, meterAPIName string) ([]Meter, error)
	ProductItems(ctx context.Context) ([]ProductItem, error)
	ProductItemPrices(ctx context.Context, productItemID string) (map[string]any, error)
	SaveProductItemPrices(ctx context.Context, prices map[string]any) (map[string]any, error)
	SaveProductPlan(ctx context.Context, plan map[string]any) (map[string]any, error)
}

// Result describes what Publish wrote.
type Result struct {
	Meter             Meter
	ProductItem       ProductItem
	PriceID           string
	ProductItemPrices map[string]any
	ProductPlan       map[string]any
}

// Publisher pushes resolved matrices into the billing system.
type Publisher struct {
	api    API
	events domain.EventPublisher
}

// NewPublisher creates a new publisher (DI constructor). events may be nil.
func NewPublisher(api API, events domain.EventPublisher) *Publisher {
	return &Publisher{api: api, events: events}
}

// Publish installs matrix as the cost price of the plan's meter and attaches
// it to a product plan.
func (p *Publisher) Publish(ctx context.Context, plan *domain.Plan, matrix domain.Matrix) (*Result, error) {
	if plan == nil {
		return nil, errors.New("plan cannot be nil")
	}
	if plan.MeterAPIName == "" {
		return nil, errors.New("plan has no meter API name")
	}

	logger := observability.FromContext(ctx).With(observability.String("meter", plan.MeterAPIName))
	dimensions := plan.DimensionNames()

	meter, err := p.meter(ctx, plan.MeterAPIName)
	if err != nil {
		return nil, err
	}
	logger.Info("found meter",
		observability.String("meter_id", meter.ID),
		observability.Strings("dimensions", meter.Dimensions))

	if missing := missingDimensions(dimensions, meter.Dimensions); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrDimensionsMissing, missing)
	}

	item, err := p.productItem(ctx, plan.MeterAPIName)
	if err != nil {
		return nil, err
	}
	logger.Info("found product item", observability.String("product_item_id", item.ID))

	priceID := PriceID(plan.MeterAPIName)

	existing, err := p.api.ProductItemPrices(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product item prices: %w", err)
	}
	prices := MergeItemPrice(existing, item.ID, priceID,
		DimensionMatrixPrice(item.ID, priceID, dimensions, matrix))

	savedPrices, err := p.api.SaveProductItemPrices(ctx, prices)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert product item prices: %w", err)
	}
	logger.Info("upserted product item prices",
		observability.String("price_id", priceID),
		observability.Int("entries", len(matrix)))

	savedPlan, err := p.api.SaveProductPlan(ctx, ProductPlan(plan.ProductPlanOverride, item.ID, priceID))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert product plan: %w", err)
	}
	logger.Info("upserted product plan", observability.Any("product_plan_id", savedPlan["id"]))

	if p.events != nil {
		p.events.Publish(ctx, "billing.published", map[string]interface{}{
			"meter":        plan.MeterAPIName,
			"product_item": item.ID,
			"price_id":     priceID,
			"entries":      len(matrix),
		})
	}

	return &Result{
		Meter:             meter,
		ProductItem:       item,
		PriceID:           priceID,
		ProductItemPrices: savedPrices,
		ProductPlan:       savedPlan,
	}, nil
}

func (p *Publisher) meter(ctx context.Context, meterAPIName string) (Meter, error) {
	meters, err := p.api.Meters(ctx, meterAPIName)
	if err != nil {
		return Meter{}, fmt.Errorf("failed to get meter: %w", err)
	}
	if len(meters) == 0 {
		return Meter{}, fmt.Errorf("%w: %s", ErrMeterNotFound, meterAPIName)
	}
	return meters[0], nil
}

func (p *Publisher) productItem(ctx context.Context, meterAPIName string) (ProductItem, error) {
	items, err := p.api.ProductItems(ctx)
	if err != nil {
		return ProductItem{}, fmt.Errorf("failed to list product items: %w", err)
	}
	for _, item := range items {
		if item.MeterAPIName == meterAPIName {
			return item, nil
		}
	}
	return ProductItem{}, fmt.Errorf("%w for meter: %s", ErrProductItemNotFound, meterAPIName)
}

func missingDimensions(required, declared []string) []string {
	have := make(map[string]struct{}, len(declared))
	for _, d := range declared {
		have[d] = struct{}{}
	}

	var missing []string
	for _, d := range required {
		if _, ok := have[d]; !ok {
			missing = append(missing, d)
		}
	}
	return missing
}
