// Package ginue drives the ginue CLI to pull kintone app definitions into the
// design tree and push them back. ginue itself is never reimplemented; it is
// invoked through a Runner so tests can substitute a fake.
package ginue
