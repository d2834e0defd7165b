// Package markdown renders the README usage guide that accompanies the HTML
// schema page.
package markdown
