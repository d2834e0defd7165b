// Package orchestrator wires the documentation pipeline: design loading,
// layout extraction, category classification, relationship inference and
// rendering.
package orchestrator
