// Package design discovers exported kintone form documents on disk.
//
// The loader expects the directory layout produced by ginue pulls:
//
//	<app>/<env>/app_form_fields.json
//	<app>/<env>/app_form_layout.json
//
// Files placed directly under <app>/ are accepted as well.
package design
