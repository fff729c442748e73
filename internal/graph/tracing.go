package graph

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/repodocs/repodocs/internal/graph")

type runIDKey struct{}

// WithRunID stamps ctx with a fresh run id, used to correlate every node's
// span and log line across a single pipeline invocation. No exporter is
// wired by default; this only shapes the trace contract for whichever
// exporter the caller registers on the global otel provider.
func WithRunID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, runIDKey{}, id), id
}

// RunID extracts the run id stamped by WithRunID, or "" if absent.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// traceExecute wraps a node's Execute call in a span named after the node,
// tagged with the run id and node name.
func traceExecute(ctx context.Context, nodeName string, fn func(context.Context) (any, error)) (any, error) {
	ctx, span := tracer.Start(ctx, "graph.node.execute",
		trace.WithAttributes(
			attribute.String("graph.node.name", nodeName),
			attribute.String("graph.run.id", RunID(ctx)),
		),
	)
	defer span.End()
	result, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return result, err
}
