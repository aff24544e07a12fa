// Package nulls provides no-op implementations for tests and optional dependencies.
package nulls

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type NullLogger struct{}

func (NullLogger) Log(context.Context, string, ...interface{}) {}

// NullTracer returns a tracer that records nothing.
func NullTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("")
}
