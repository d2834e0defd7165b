package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	kintoneschema "github.com/goliatone/go-kintone-schema"
	"github.com/goliatone/go-kintone-schema/pkg/extract"
	"github.com/goliatone/go-kintone-schema/pkg/orchestrator"
	"github.com/goliatone/go-kintone-schema/pkg/render"
	"github.com/goliatone/go-kintone-schema/pkg/renderers/html"
)

func (c *cli) schemaCmd() *cobra.Command {
	var env string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate the HTML schema page and README from exported design files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			grouping, ok := extract.ParseGrouping(c.cfg.Grouping)
			if !ok {
				return fmt.Errorf("unknown grouping %q (use row or section)", c.cfg.Grouping)
			}
			policy, ok := extract.ParsePolicy(c.cfg.LayoutPolicy)
			if !ok {
				return fmt.Errorf("unknown layout policy %q", c.cfg.LayoutPolicy)
			}

			opts := []orchestrator.Option{
				orchestrator.WithLogger(c.logger),
				orchestrator.WithClock(c.now),
				orchestrator.WithExtractOptions(extract.WithGrouping(grouping), extract.WithPolicy(policy)),
			}
			page, err := c.pageOptions()
			if err != nil {
				return err
			}
			if len(page) > 0 {
				renderers, err := kintoneschema.WithHTMLOptions(page...)
				if err != nil {
					return err
				}
				opts = append(opts, renderers)
			}

			o := orchestrator.New(opts...)
			doc, err := o.Generate(cmd.Context(), orchestrator.Request{
				Design:      os.DirFS(c.cfg.AppsDir()),
				Environment: env,
				Registry:    c.store(),
				Title:       c.cfg.Title,
			})
			if err != nil {
				return err
			}

			options := render.RenderOptions{Variant: c.cfg.Variant, MaxRelationships: c.cfg.MaxRelationships}
			written, err := o.Render(cmd.Context(), doc, c.cfg.OutputDir, options, c.cfg.Renderers...)
			if err != nil {
				return err
			}

			if doc.Stats.Empty {
				fmt.Fprintln(c.out, yellow("no apps found under"), c.cfg.AppsDir())
			}
			fmt.Fprintf(c.out, "%s apps: %d, fields: %d, relationships: %d, average fields: %d\n",
				green("✓"), doc.Stats.Apps, doc.Stats.Fields, doc.Stats.Relationships, doc.Stats.AverageFields)
			for _, path := range written {
				fmt.Fprintln(c.out, "  ", path)
			}
			for _, warning := range doc.Warnings {
				fmt.Fprintln(c.out, yellow("  ! "+warning))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&env, "env", "", "only read design files of this environment")
	f.String("output", "docs", "output directory, relative to --root")
	f.String("title", "", "page title")
	f.Int("max-relationships", 50, "relationships listed in the HTML page, negative for all")
	f.String("grouping", "row", "layout grouping: row (one group per layout row) or section (rows merged until the next GROUP or SUBTABLE, as the legacy schema generator grouped them)")
	f.String("layout-policy", "", "layout-authoritative or union-with-definitions")
	f.String("variant", "", "theme variant, e.g. print")
	f.StringSlice("renderers", nil, "renderers to run (html, markdown), all when empty")
	f.String("templates-dir", "", "directory overriding templates/page.tmpl and templates/styles.tmpl")
	f.String("theme-file", "", "YAML file overriding the page colour tokens")
	return cmd
}

func (c *cli) pageOptions() ([]html.Option, error) {
	var out []html.Option
	if c.cfg.TemplatesDir != "" {
		out = append(out, html.WithTemplatesDir(c.cfg.TemplatesDir))
	}
	if c.cfg.ThemeFile != "" {
		manifest, err := html.LoadThemeFile(c.cfg.ThemeFile)
		if err != nil {
			return nil, err
		}
		out = append(out, html.WithManifest(manifest))
	}
	return out, nil
}
