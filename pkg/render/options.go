package render

// DefaultMaxRelationships caps the relationships listed in rendered output.
const DefaultMaxRelationships = 50

// RenderOptions describe per-run presentation choices that do not belong in
// the Document itself.
type RenderOptions struct {
	// Variant selects a theme variant (for example "dark"). Empty uses the
	// base theme.
	Variant string
	// MaxRelationships limits the listed relationships. Zero means
	// DefaultMaxRelationships; negative values list everything.
	MaxRelationships int
}

// RelationshipLimit resolves MaxRelationships against the default.
func (o RenderOptions) RelationshipLimit(total int) int {
	limit := o.MaxRelationships
	if limit == 0 {
		limit = DefaultMaxRelationships
	}
	if limit < 0 || limit > total {
		return total
	}
	return limit
}
