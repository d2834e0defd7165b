package gotemplate

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/flosch/pongo2/v6"
)

// toContext flattens data into plain maps, slices and scalars through its
// JSON form, so templates address fields by their json tags.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	if ctx, ok := data.(pongo2.Context); ok {
		data = map[string]any(ctx)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("template data must encode as an object: %w", err)
	}

	ctx := make(pongo2.Context, len(decoded))
	for key, value := range decoded {
		if key == "" {
			continue
		}
		ctx[key] = integral(value)
	}
	return ctx, nil
}

// integral turns whole JSON numbers back into ints so templates print "3"
// rather than "3.000000".
func integral(value any) any {
	switch v := value.(type) {
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int(v)
		}
		return v
	case map[string]any:
		for key, item := range v {
			v[key] = integral(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = integral(item)
		}
		return v
	default:
		return v
	}
}
