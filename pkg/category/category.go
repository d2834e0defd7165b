package category

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Other is the catch-all category key.
const Other = "other"

// Info describes a category as shown to readers.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Categories maps category keys to their display information.
type Categories map[string]Info

// Name returns the display name for key, falling back to the key itself.
func (c Categories) Name(key string) string {
	if info, ok := c[key]; ok && info.Name != "" {
		return info.Name
	}
	return key
}

// Keys returns the category keys in sorted order.
func (c Categories) Keys() []string {
	out := make([]string, 0, len(c))
	for key := range c {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// DefaultCategories is used when the registry declares none.
func DefaultCategories() Categories {
	return Categories{
		"master":   {Name: "マスタデータ", Description: "マスタデータ管理アプリケーション"},
		"business": {Name: "業務管理", Description: "業務プロセス管理アプリケーション"},
		"finance":  {Name: "財務・経理", Description: "財務・経理関連アプリケーション"},
		"report":   {Name: "レポート・分析", Description: "集計・分析・レポート機能"},
		"admin":    {Name: "システム管理", Description: "システム管理・設定アプリケーション"},
		"workflow": {Name: "ワークフロー", Description: "承認・申請ワークフロー"},
		"sample":   {Name: "サンプル", Description: "サンプル・テンプレート・テスト用アプリ"},
		Other:      {Name: "その他", Description: "その他のアプリケーション"},
	}
}

// Predicate inspects a normalised app name.
type Predicate func(name string) bool

// Rule assigns Category when Match accepts the app name.
type Rule struct {
	Name     string
	Match    Predicate
	Category string
}

// ContainsAny builds a predicate matching names that contain any keyword.
// Keywords are normalised the same way as the names they are matched against.
func ContainsAny(keywords ...string) Predicate {
	normalised := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = Normalize(kw); kw != "" {
			normalised = append(normalised, kw)
		}
	}
	return func(name string) bool {
		for _, kw := range normalised {
			if strings.Contains(name, kw) {
				return true
			}
		}
		return false
	}
}

// DefaultRules mirrors the keyword table used by the schema generator.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "master", Match: ContainsAny("マスタ"), Category: "master"},
		{Name: "admin", Match: ContainsAny("管理", "登録", "設定"), Category: "admin"},
		{Name: "report", Match: ContainsAny("一覧", "集計", "レポート", "分析"), Category: "report"},
		{Name: "finance", Match: ContainsAny("請求", "支払", "経理", "財務", "会計"), Category: "finance"},
		{Name: "business", Match: ContainsAny("業務", "作業", "タスク", "プロジェクト", "案件"), Category: "business"},
		{Name: "workflow", Match: ContainsAny("ワークフロー", "承認", "申請"), Category: "workflow"},
		{Name: "sample", Match: ContainsAny("サンプル", "テンプレート", "テスト"), Category: "sample"},
	}
}

// Normalize folds compatibility forms (full-width letters, half-width kana)
// so keyword checks behave the same regardless of how a name was typed.
func Normalize(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}
