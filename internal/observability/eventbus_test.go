package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/davidbz/pricematrix/internal/observability"
)

func TestEventBus_Publish(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	bus := observability.NewEventBus(zap.New(core))

	ctx := observability.WithRunID(context.Background(), "run-1")
	bus.Publish(ctx, "matrix.resolved", map[string]interface{}{
		"sources": 4,
		"entries": 3,
		"meter":   "ec2-cost",
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "matrix.resolved", entry.Message)

	fields := entry.ContextMap()
	require.Equal(t, "matrix.resolved", fields["event"])
	require.Equal(t, "run-1", fields["run_id"])
	require.Equal(t, "ec2-cost", fields["meter"])
	require.EqualValues(t, 3, fields["entries"])

	var keys []string
	for _, f := range entry.Context {
		keys = append(keys, f.Key)
	}
	require.Equal(t, []string{"run_id", "event", "entries", "meter", "sources"}, keys)
}

func TestEventBus_NilLogger(t *testing.T) {
	bus := observability.NewEventBus(nil)

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), "matrix.stored", nil)
	})
}

func TestInitLogger_Level(t *testing.T) {
	logger, err := observability.InitLogger(&observability.LogConfig{Level: "debug"})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = observability.InitLogger(&observability.LogConfig{Level: "chatty"})
	require.Error(t, err)
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	require.Empty(t, observability.GetRunID(ctx))

	ctx = observability.WithRunID(ctx, "run-1")
	ctx = observability.WithRequestID(ctx, "req-1")
	ctx = observability.WithPlan(ctx, "ec2")
	ctx = observability.WithCatalog(ctx, "catalog.csv")

	require.Equal(t, "run-1", observability.GetRunID(ctx))
	require.Equal(t, "req-1", observability.GetRequestID(ctx))
	require.Equal(t, "ec2", observability.GetPlan(ctx))
	require.Equal(t, "catalog.csv", observability.GetCatalog(ctx))
	require.NotEqual(t, observability.GenerateRunID(), observability.GenerateRunID())
}
