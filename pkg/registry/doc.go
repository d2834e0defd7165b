// Package registry reads and writes the apps registry: the list of kintone
// apps under management, their per-environment app IDs, category metadata
// and sync history. The registry is accessed through the Store interface so
// callers never hold it as process-wide state; FileStore persists it as JSON
// or YAML depending on the file extension.
package registry
