// Package orchestrator wires the field list → transformer → has-one splice →
// theme → renderer pipeline, providing dependency injection friendly helpers
// for consumers that prefer a single entry point.
package orchestrator
