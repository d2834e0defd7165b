// Package kintone defines the typed view of the form documents exported by
// ginue: the field definitions found in app_form_fields.json and the visual
// arrangement found in app_form_layout.json. Field definitions keep the key
// order of the source document so consumers that have no layout can still
// list fields the way the form designer saved them.
package kintone
