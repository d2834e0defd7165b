package relations

import "strings"

// KindCommonField tags edges derived from a shared field code.
const KindCommonField = "common_field"

// Edge links two apps sharing Field. Edges are undirected; From precedes To
// in the occurrence order of the field.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Field string `json:"field"`
	Kind  string `json:"type"`
}

const (
	DefaultMaxCommonFields    = 50
	DefaultMaxAppsPerField    = 20
	DefaultRareFieldThreshold = 5
)

// DefaultImportantSubstrings mark identifier-like field codes.
var DefaultImportantSubstrings = []string{
	"ID", "コード", "番号", "管理番号", "No", "KEY", "顧客", "ユーザー", "部門", "担当者",
}

// keyFieldPatterns drive IsKeyField.
var keyFieldPatterns = []string{
	"ID", "コード", "番号", "管理番号", "No", "KEY", "レコード番号", "ユニークID", "識別子",
}

// Option tunes inference thresholds.
type Option func(*config)

type config struct {
	maxCommonFields    int
	maxAppsPerField    int
	rareFieldThreshold int
	important          []string
}

// WithMaxCommonFields caps how many common fields are considered.
func WithMaxCommonFields(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxCommonFields = n
		}
	}
}

// WithMaxAppsPerField excludes fields shared by more apps than n.
func WithMaxAppsPerField(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxAppsPerField = n
		}
	}
}

// WithRareFieldThreshold admits any field shared by at most n apps.
func WithRareFieldThreshold(n int) Option {
	return func(cfg *config) {
		if n >= 0 {
			cfg.rareFieldThreshold = n
		}
	}
}

// WithImportantSubstrings replaces the keyword list.
func WithImportantSubstrings(values []string) Option {
	return func(cfg *config) {
		if len(values) == 0 {
			return
		}
		cfg.important = append([]string(nil), values...)
	}
}

// Infer derives edges from the common fields of table.
func Infer(table *FrequencyTable, options ...Option) []Edge {
	cfg := config{
		maxCommonFields:    DefaultMaxCommonFields,
		maxAppsPerField:    DefaultMaxAppsPerField,
		rareFieldThreshold: DefaultRareFieldThreshold,
		important:          DefaultImportantSubstrings,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	common := table.Common()
	if len(common) > cfg.maxCommonFields {
		common = common[:cfg.maxCommonFields]
	}

	edges := []Edge{}
	for _, entry := range common {
		count := entry.Count()
		if count < 2 || count > cfg.maxAppsPerField {
			continue
		}
		if !containsAny(entry.Code, cfg.important) && count > cfg.rareFieldThreshold {
			continue
		}
		for i := 0; i < count; i++ {
			for j := i + 1; j < count; j++ {
				from, to := entry.Occurrences[i].App, entry.Occurrences[j].App
				if from == to {
					continue
				}
				edges = append(edges, Edge{From: from, To: to, Field: entry.Code, Kind: KindCommonField})
			}
		}
	}
	return edges
}

// IsKeyField reports whether code looks like an identifier.
func IsKeyField(code string) bool {
	return containsAny(code, keyFieldPatterns)
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
