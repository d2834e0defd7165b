package model

import (
	"fmt"
	"regexp"
	"strings"
)

const maxSlugLength = 25

var (
	bracketedPattern = regexp.MustCompile(`【.*?】`)
	nonWordPattern   = regexp.MustCompile(`[^\w\s]`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// Slug reduces an app name to an identifier: 【...】 annotations are dropped,
// characters outside [A-Za-z0-9_] and whitespace are removed, whitespace runs
// become underscores and the result is cut to 25 characters.
func Slug(name string) string {
	s := bracketedPattern.ReplaceAllString(name, "")
	s = nonWordPattern.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, "_")
	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
	}
	return s
}

// Slugs assigns a unique slug to every name. Names that reduce to nothing get
// a positional "app_<n>" slug; collisions get a numeric suffix.
func Slugs(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]int, len(names))
	for i, name := range names {
		slug := Slug(name)
		if strings.Trim(slug, "_") == "" {
			slug = fmt.Sprintf("app_%d", i+1)
		}
		if n := seen[slug]; n > 0 {
			seen[slug] = n + 1
			slug = fmt.Sprintf("%s_%d", slug, n+1)
		} else {
			seen[slug] = 1
		}
		out[i] = slug
	}
	return out
}
