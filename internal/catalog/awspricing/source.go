// Package awspricing reads catalog records from the AWS Price List Query API.
// Records use the column names of the bulk price-list CSV files, so plans
// written against a downloaded catalog work unchanged against the API.
package awspricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/aws/smithy-go"

	"github.com/davidbz/pricematrix/internal/domain"
	"github.com/davidbz/pricematrix/internal/observability"
)

const maxResultsPerPage int32 = 100

// Config contains Price List API settings.
type Config struct {
	Region      string `env:"AWS_PRICING_REGION"       envDefault:"us-east-1"`
	Profile     string `env:"AWS_PROFILE"`
	ServiceCode string `env:"AWS_PRICING_SERVICE_CODE" envDefault:"AmazonEC2"`
}

// NewClient builds a Price List API client from the default credential chain.
func NewClient(ctx context.Context, cfg Config) (*pricing.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return pricing.NewFromConfig(awsCfg), nil
}

// Source pages through GetProducts for one service code.
type Source struct {
	client      pricing.GetProductsAPIClient
	serviceCode string
	filters     []types.Filter
}

// NewSource creates an API backed record source. Conditions on columns that
// map to Price List attributes are sent as TERM_MATCH filters; the rest are
// left to the resolver.
func NewSource(client pricing.GetProductsAPIClient, serviceCode string, pushdown domain.EqualityCondition) *Source {
	return &Source{
		client:      client,
		serviceCode: serviceCode,
		filters:     Filters(pushdown),
	}
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return "aws-pricing:" + s.serviceCode
}

// Filters converts the translatable conditions into API filters.
func Filters(conditions domain.EqualityCondition) []types.Filter {
	var filters []types.Filter
	for _, c := range conditions {
		attribute, ok := attributeByColumn[c.Field]
		if !ok || c.Value == "" {
			continue
		}
		filters = append(filters, types.Filter{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String(attribute),
			Value: aws.String(c.Value),
		})
	}
	return filters
}

// Records returns one record per term, price dimension and currency of every
// product, in API page order.
func (s *Source) Records(ctx context.Context) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		logger := observability.FromContext(ctx)

		paginator := pricing.NewGetProductsPaginator(s.client, &pricing.GetProductsInput{
			ServiceCode:   aws.String(s.serviceCode),
			Filters:       s.filters,
			FormatVersion: aws.String("aws_v1"),
			MaxResults:    aws.Int32(maxResultsPerPage),
		})

		var pages int
		for paginator.HasMorePages() {
			out, err := paginator.NextPage(ctx)
			if err != nil {
				yield(domain.Record{}, apiError(err))
				return
			}
			pages++
			logger.Debug("fetched price list page",
				observability.Int("page", pages),
				observability.Int("products", len(out.PriceList)))

			for _, raw := range out.PriceList {
				rows, err := Flatten([]byte(raw))
				if err != nil {
					yield(domain.Record{}, err)
					return
				}
				for _, fields := range rows {
					if !yield(domain.NewRecord(fields), nil) {
						return
					}
				}
			}
		}
	}
}

func apiError(err error) error {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return fmt.Errorf("price list API error %s: %s: %w", ae.ErrorCode(), ae.ErrorMessage(), err)
	}
	return fmt.Errorf("failed to fetch price list: %w", err)
}

type priceListItem struct {
	ServiceCode string `json:"serviceCode"`
	Product     struct {
		ProductFamily string            `json:"productFamily"`
		Attributes    map[string]string `json:"attributes"`
		SKU           string            `json:"sku"`
	} `json:"product"`
	Terms map[string]map[string]term `json:"terms"`
}

type term struct {
	OfferTermCode   string                    `json:"offerTermCode"`
	EffectiveDate   string                    `json:"effectiveDate"`
	TermAttributes  map[string]string         `json:"termAttributes"`
	PriceDimensions map[string]priceDimension `json:"priceDimensions"`
}

type priceDimension struct {
	RateCode     string            `json:"rateCode"`
	Description  string            `json:"description"`
	Unit         string            `json:"unit"`
	BeginRange   string            `json:"beginRange"`
	EndRange     string            `json:"endRange"`
	PricePerUnit map[string]string `json:"pricePerUnit"`
}

// Flatten converts one Price List JSON document into CSV shaped field maps.
// Map keys are visited in sorted order so output is deterministic.
func Flatten(raw []byte) ([]map[string]string, error) {
	var item priceListItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to decode price list item: %w", err)
	}

	base := make(map[string]string, len(attributeByColumn)+8)
	for column := range attributeByColumn {
		base[column] = ""
	}
	for attribute, value := range item.Product.Attributes {
		base[columnForAttribute(attribute)] = value
	}
	base["SKU"] = item.Product.SKU
	base["Product Family"] = item.Product.ProductFamily
	base["serviceCode"] = item.ServiceCode

	var rows []map[string]string
	for _, termType := range slices.Sorted(maps.Keys(item.Terms)) {
		offers := item.Terms[termType]
		for _, offerKey := range slices.Sorted(maps.Keys(offers)) {
			t := offers[offerKey]
			for _, dimKey := range slices.Sorted(maps.Keys(t.PriceDimensions)) {
				pd := t.PriceDimensions[dimKey]
				for _, currency := range slices.Sorted(maps.Keys(pd.PricePerUnit)) {
					row := maps.Clone(base)
					row["TermType"] = termType
					row["OfferTermCode"] = t.OfferTermCode
					row["EffectiveDate"] = t.EffectiveDate
					row["RateCode"] = pd.RateCode
					row["PriceDescription"] = pd.Description
					row["Unit"] = pd.Unit
					row["StartingRange"] = pd.BeginRange
					row["EndingRange"] = pd.EndRange
					row["PricePerUnit"] = pd.PricePerUnit[currency]
					row["Currency"] = currency
					row["LeaseContractLength"] = t.TermAttributes["LeaseContractLength"]
					row["PurchaseOption"] = t.TermAttributes["PurchaseOption"]
					row["OfferingClass"] = t.TermAttributes["OfferingClass"]
					rows = append(rows, row)
				}
			}
		}
	}

	return rows, nil
}
