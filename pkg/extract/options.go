package extract

import "log/slog"

// Option configures an extraction pass.
type Option func(*config)

type config struct {
	policy   Policy
	grouping Grouping
	logger   *slog.Logger
}

// WithPolicy selects how unplaced definitions are handled.
func WithPolicy(policy Policy) Option {
	return func(cfg *config) {
		if policy != "" {
			cfg.policy = policy
		}
	}
}

// WithGrouping selects how adjacent rows are clustered.
func WithGrouping(grouping Grouping) Option {
	return func(cfg *config) {
		if grouping != "" {
			cfg.grouping = grouping
		}
	}
}

// WithLogger routes diagnostics to the provided logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func newConfig(options []Option) config {
	cfg := config{
		policy:   PolicyLayoutAuthoritative,
		grouping: GroupByRow,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
