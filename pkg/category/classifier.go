package category

import "log/slog"

// Assignment is an explicit category for an app, usually from the registry.
type Assignment struct {
	Key      string
	Title    string
	Category string
}

// Classifier resolves categories from explicit assignments first and the
// rule list second.
type Classifier struct {
	byKey    map[string]string
	byTitle  map[string]string
	rules    []Rule
	fallback string
	logger   *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRules replaces the rule list.
func WithRules(rules ...Rule) Option {
	return func(c *Classifier) {
		c.rules = append([]Rule(nil), rules...)
	}
}

// WithAssignments registers explicit categories. Assignments without a
// category are ignored.
func WithAssignments(assignments ...Assignment) Option {
	return func(c *Classifier) {
		for _, a := range assignments {
			if a.Category == "" {
				continue
			}
			if a.Key != "" {
				c.byKey[a.Key] = a.Category
			}
			if a.Title != "" {
				c.byTitle[a.Title] = a.Category
			}
		}
	}
}

// WithFallback overrides the catch-all category.
func WithFallback(key string) Option {
	return func(c *Classifier) {
		if key != "" {
			c.fallback = key
		}
	}
}

// WithLogger sets the logger used for resolution traces.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClassifier builds a classifier using DefaultRules unless overridden.
func NewClassifier(options ...Option) *Classifier {
	c := &Classifier{
		byKey:    make(map[string]string),
		byTitle:  make(map[string]string),
		rules:    DefaultRules(),
		fallback: Other,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Classify returns the category for an app identified by its key (design
// directory / registry key) and display name.
func (c *Classifier) Classify(key, name string) string {
	if category, ok := c.byKey[key]; ok {
		c.logger.Debug("category from registry", "app", key, "category", category)
		return category
	}
	if category, ok := c.byTitle[name]; ok {
		c.logger.Debug("category from registry title", "app", name, "category", category)
		return category
	}

	candidates := []string{Normalize(name)}
	if key != "" && key != name {
		candidates = append(candidates, Normalize(key))
	}
	for _, rule := range c.rules {
		if rule.Match == nil {
			continue
		}
		for _, candidate := range candidates {
			if candidate != "" && rule.Match(candidate) {
				return rule.Category
			}
		}
	}
	return c.fallback
}
