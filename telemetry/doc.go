// Package telemetry wraps the structured logger and meter/tracer handles
// shared across this module's packages, so every component accepts the same
// small surface via a functional option (WithLogger) instead of reaching for
// a process-wide global.
//
// Logging uses go.uber.org/zap sparingly: a handful of structured
// fields, Info/Warn/Error only, one line per advisory event
// rather than per item. Instrumentation uses the OpenTelemetry metric/trace
// APIs only — wiring an actual exporter belongs to the excluded ops/HTTP
// surface.
package telemetry
