// Package logging wraps zap with context-aware methods. Trace and span ids
// of the active OpenTelemetry span are attached to every entry so store
// builds and retrievals can be correlated with their spans.
package logging
