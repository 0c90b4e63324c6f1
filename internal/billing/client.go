package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	metersPath            = "/meters"
	productItemsPath      = "/payments/pricing/amberflo/account-pricing/product-items/list"
	productItemPricesPath = "/payments/pricing/amberflo/account-pricing/product-item-prices"
	productPlansPath      = "/payments/pricing/amberflo/account-pricing/product-plans"

	apiKeyHeader = "X-API-KEY"
)

// Client wraps the HTTP client for billing API calls.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new billing HTTP client.
func NewClient(config *Config) *Client {
	return &Client{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}
}

// Meter is a metering definition.
type Meter struct {
	ID           string   `json:"id"`
	MeterAPIName string   `json:"meterApiName"`
	Label        string   `json:"label"`
	Dimensions   []string `json:"dimensions"`
}

// ProductItem links a meter to pricing.
type ProductItem struct {
	ID              string `json:"id"`
	MeterAPIName    string `json:"meterApiName"`
	ProductItemName string `json:"productItemName"`
}

// Meters returns the meters registered under the given API name.
func (c *Client) Meters(ctx context.Context, meterAPIName string) ([]Meter, error) {
	var meters []Meter
	query := url.Values{"meterApiName": {meterAPIName}}
	if err := c.do(ctx, http.MethodGet, metersPath, query, nil, &meters); err != nil {
		return nil, err
	}
	return meters, nil
}

// ProductItems lists every product item of the account.
func (c *Client) ProductItems(ctx context.Context) ([]ProductItem, error) {
	var items []ProductItem
	if err := c.do(ctx, http.MethodGet, productItemsPath, nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ProductItemPrices returns the price map of a product item, or nil when the
// item has none yet.
func (c *Client) ProductItemPrices(ctx context.Context, productItemID string) (map[string]any, error) {
	var prices map[string]any
	query := url.Values{"productItemId": {productItemID}}
	if err := c.do(ctx, http.MethodGet, productItemPricesPath, query, nil, &prices); err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, nil
	}
	return prices, nil
}

// SaveProductItemPrices replaces the price map of a product item.
func (c *Client) SaveProductItemPrices(ctx context.Context, prices map[string]any) (map[string]any, error) {
	var saved map[string]any
	if err := c.do(ctx, http.MethodPost, productItemPricesPath, nil, prices, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// SaveProductPlan creates or replaces a product plan.
func (c *Client) SaveProductPlan(ctx context.Context, plan map[string]any) (map[string]any, error) {
	var saved map[string]any
	if err := c.do(ctx, http.MethodPost, productPlansPath, nil, plan, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.apiKey == "" {
		return errors.New("API key is not configured")
	}

	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(reqBody)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(apiKeyHeader, c.apiKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if decodeErr := json.Unmarshal(respBody, out); decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	return nil
}
