package registry

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ResolveTargets expands a CLI target into app keys: "all" selects every
// enabled app, a comma separated list selects those apps, anything else is
// a single app key. Unknown or disabled apps are reported together.
func (r *Registry) ResolveTargets(target string) ([]string, error) {
	target = strings.TrimSpace(target)
	available := r.Enabled()
	if target == "all" {
		return available, nil
	}

	var requested []string
	for _, part := range strings.Split(target, ",") {
		if part = strings.TrimSpace(part); part != "" {
			requested = append(requested, part)
		}
	}
	if len(requested) == 0 {
		return nil, fmt.Errorf("registry: no apps selected")
	}

	known := make(map[string]struct{}, len(available))
	for _, key := range available {
		known[key] = struct{}{}
	}
	var invalid []string
	for _, key := range requested {
		if _, ok := known[key]; !ok {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrAppNotFound, strings.Join(invalid, ", "), strings.Join(available, ", "))
	}
	return requested, nil
}

var envPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// ExpandEnv replaces ${NAME} references using lookup. References that do not
// resolve to a non-empty value are left untouched.
func ExpandEnv(s string, lookup func(string) (string, bool)) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envPattern.FindStringSubmatch(match)[1]
		if value, ok := lookup(name); ok && value != "" {
			return value
		}
		return match
	})
}
