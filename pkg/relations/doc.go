// Package relations infers links between apps from the field codes they
// share. A field code present in several apps is treated as a candidate join
// key; ubiquitous audit fields are filtered out by count bands and a keyword
// heuristic favouring identifier-like codes.
package relations
