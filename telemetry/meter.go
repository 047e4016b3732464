package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Meter returns the global no-op-backed meter named for this module. In
// production a real MeterProvider would be registered by the serving
// layer; this module only ever calls through the API, so it behaves
// identically whether or not an exporter is attached.
func Meter(name string) metric.Meter {
	return otel.GetMeterProvider().Meter(name)
}

// Tracer returns the global no-op-backed tracer named for this module, used
// to span the phases of the per-query state machine.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(name)
}
