// Package model defines the documentation model consumed by renderers. The
// orchestrator builds a Document from the extracted apps and inferred
// relationships; renderers only read it.
package model
