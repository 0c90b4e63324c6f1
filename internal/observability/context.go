package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// RunIDKey holds the identifier of a matrix run.
	RunIDKey contextKey = "run_id"

	// RequestIDKey holds the unique request identifier.
	RequestIDKey contextKey = "request_id"

	// PlanKey holds the plan (meter) name being resolved.
	PlanKey contextKey = "plan"

	// CatalogKey holds the catalog the run reads from.
	CatalogKey contextKey = "catalog"
)

// WithRunID injects run ID into context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithRequestID injects request ID into context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithPlan injects plan name into context.
func WithPlan(ctx context.Context, plan string) context.Context {
	return context.WithValue(ctx, PlanKey, plan)
}

// WithCatalog injects catalog name into context.
func WithCatalog(ctx context.Context, catalog string) context.Context {
	return context.WithValue(ctx, CatalogKey, catalog)
}

// GetRunID extracts run ID from context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// GetRequestID extracts request ID from context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetPlan extracts plan name from context.
func GetPlan(ctx context.Context) string {
	if plan, ok := ctx.Value(PlanKey).(string); ok {
		return plan
	}
	return ""
}

// GetCatalog extracts catalog name from context.
func GetCatalog(ctx context.Context) string {
	if catalog, ok := ctx.Value(CatalogKey).(string); ok {
		return catalog
	}
	return ""
}

// GenerateRunID generates a unique run identifier (UUID).
func GenerateRunID() string {
	return uuid.New().String()
}

// GenerateRequestID generates a unique request identifier (UUID).
func GenerateRequestID() string {
	return uuid.New().String()
}
