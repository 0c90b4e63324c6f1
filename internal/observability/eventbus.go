package observability

import (
	"context"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// EventBus implements the EventPublisher interface on top of the logger.
type EventBus struct {
	logger *zap.Logger
}

// NewEventBus creates a new event bus.
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		logger: logger,
	}
}

// Publish publishes an event with the given type and data.
func (e *EventBus) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if e.logger == nil {
		return
	}

	fields := make([]zap.Field, 0, len(data)+1)
	fields = append(fields, zap.String("event", eventType))
	for _, k := range slices.Sorted(maps.Keys(data)) {
		fields = append(fields, zap.Any(k, data[k]))
	}

	logger := e.logger
	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With(zap.String("run_id", runID))
	}
	logger.Info(eventType, fields...)
}
