package html

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-kintone-schema/pkg/extract"
	"github.com/goliatone/go-kintone-schema/pkg/model"
	"github.com/goliatone/go-kintone-schema/pkg/relations"
	"github.com/goliatone/go-kintone-schema/pkg/render"
)

const noGroupName = "なし"

type pageView struct {
	Title               string           `json:"title"`
	GeneratedAt         string           `json:"generatedAt"`
	Stats               model.Stats      `json:"stats"`
	Tabs                []tabView        `json:"tabs"`
	Categories          []categoryView   `json:"categories"`
	Relationships       []relations.Edge `json:"relationships"`
	RelationshipTotal   int              `json:"relationshipTotal"`
	HiddenRelationships int              `json:"hiddenRelationships"`
	Warnings            []string         `json:"warnings"`
}

type tabView struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type categoryView struct {
	Key    string    `json:"key"`
	Class  string    `json:"class"`
	Name   string    `json:"name"`
	Scheme int       `json:"scheme"`
	Apps   []appView `json:"apps"`
}

type appView struct {
	Name       string      `json:"name"`
	Title      string      `json:"title"`
	Slug       string      `json:"slug"`
	SearchKey  string      `json:"searchKey"`
	FieldCount int         `json:"fieldCount"`
	GroupCount int         `json:"groupCount"`
	Blocks     []blockView `json:"blocks"`
}

// blockView is a run of field rows, optionally boxed under a header.
type blockView struct {
	Boxed     bool            `json:"boxed"`
	Class     string          `json:"class"`
	Label     string          `json:"label"`
	GroupName string          `json:"groupName"`
	Fields    []extract.Field `json:"fields"`
}

func buildPage(doc model.Document, options render.RenderOptions, schemes int) pageView {
	title := doc.Title
	if title == "" {
		title = "Kintone Apps Schema Documentation"
	}
	page := pageView{
		Title:             title,
		Stats:             doc.Stats,
		RelationshipTotal: len(doc.Relationships),
		Warnings:          doc.Warnings,
	}
	if !doc.GeneratedAt.IsZero() {
		page.GeneratedAt = doc.GeneratedAt.Format("2006-01-02 15:04")
	}

	limit := options.RelationshipLimit(len(doc.Relationships))
	page.Relationships = doc.Relationships[:limit]
	page.HiddenRelationships = len(doc.Relationships) - limit

	if schemes <= 0 {
		schemes = 1
	}
	for i, cat := range doc.Categories {
		view := categoryView{
			Key:    cat.Key,
			Class:  cssClass(cat.Key, i),
			Name:   cat.Name,
			Scheme: i%schemes + 1,
		}
		for _, app := range doc.AppsIn(cat.Key) {
			view.Apps = append(view.Apps, buildApp(app))
		}
		page.Categories = append(page.Categories, view)
		if cat.Known {
			page.Tabs = append(page.Tabs, tabView{Key: view.Class, Name: cat.Name})
		}
	}
	return page
}

func buildApp(app model.App) appView {
	title := app.Title
	if title == "" {
		title = app.Name
	}
	view := appView{
		Name:       app.Name,
		Title:      title,
		Slug:       app.Slug,
		SearchKey:  strings.ToLower(title + " " + app.Name),
		FieldCount: len(app.Fields),
		GroupCount: len(app.Groups),
	}

	if len(app.Groups) == 0 {
		view.Blocks = []blockView{{
			Boxed:  true,
			Label:  "📝 フィールド一覧",
			Fields: app.Fields,
		}}
		return view
	}

	for _, group := range app.Groups {
		view.Blocks = append(view.Blocks, buildBlock(group))
	}
	return view
}

func buildBlock(group extract.Group) blockView {
	switch {
	case group.IsSubtable:
		table := group.Fields[0]
		fields := table.Columns
		if len(fields) == 0 {
			fields = group.Fields
		}
		return blockView{
			Boxed:     true,
			Class:     "subtable",
			Label:     fmt.Sprintf("📊 サブテーブル - %s (%dフィールド)", render.DisplayName(table.Code, table.Label), len(fields)),
			GroupName: group.GroupName,
			Fields:    fields,
		}
	case group.IsMultiField:
		name := group.GroupName
		if name == "" {
			name = "同一行グループ"
		}
		return blockView{
			Boxed:     true,
			Class:     "multifield",
			Label:     fmt.Sprintf("📂 %s (%dフィールド)", name, len(group.Fields)),
			GroupName: group.GroupName,
			Fields:    group.Fields,
		}
	default:
		return blockView{GroupName: displayGroupName(group.GroupName), Fields: group.Fields}
	}
}

func displayGroupName(name string) string {
	if name == "" {
		return noGroupName
	}
	return name
}
