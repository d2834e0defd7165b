// Package html renders the schema Document as a single self-contained HTML
// page with category tabs, a search box and per-app cards. Colours come from
// a go-theme manifest so callers can restyle the page without touching the
// templates.
package html
