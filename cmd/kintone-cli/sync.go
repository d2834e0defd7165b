package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-kintone-schema/pkg/category"
	"github.com/goliatone/go-kintone-schema/pkg/ginue"
	"github.com/goliatone/go-kintone-schema/pkg/prompt"
	"github.com/goliatone/go-kintone-schema/pkg/registry"
)

func (c *cli) pullCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "pull <app|all|app1,app2> <env>",
		Aliases: []string{"export"},
		Short:   "Pull app definitions from kintone into design/apps/<app>/<env>",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.sync(cmd.Context(), registry.ActionPull, args[0], args[1])
		},
	}
}

func (c *cli) pushCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "push <app|all|app1,app2> <env>",
		Aliases: []string{"import"},
		Short:   "Push the dev design files of apps to an environment",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.sync(cmd.Context(), registry.ActionPush, args[0], args[1])
		},
	}
}

func (c *cli) sync(ctx context.Context, action registry.Action, target, env string) error {
	reg, err := c.store().Load(ctx)
	if err != nil {
		return err
	}
	if !reg.HasEnvironment(env) {
		return fmt.Errorf("%w: %q", ginue.ErrEnvironmentNotFound, env)
	}
	apps, err := reg.ResolveTargets(target)
	if err != nil {
		return err
	}
	if len(apps) > 1 {
		fmt.Fprintf(c.out, "processing %d apps: %s\n", len(apps), strings.Join(apps, ", "))
	}

	err = c.manager().Batch(ctx, action, apps, env)

	var batchErr *ginue.BatchError
	if err != nil && !errors.As(err, &batchErr) {
		return err
	}
	failed := map[string]bool{}
	if batchErr != nil {
		for _, app := range batchErr.Failed {
			failed[app] = true
		}
	}
	for _, app := range apps {
		if failed[app] {
			fmt.Fprintln(c.out, red("✗"), app)
			continue
		}
		fmt.Fprintln(c.out, green("✓"), app, string(action), env)
	}
	if batchErr != nil {
		fmt.Fprintf(c.out, "%d succeeded, %d failed %s\n", len(apps)-len(batchErr.Failed), len(batchErr.Failed), faint("(run "+batchErr.RunID+")"))
		return batchErr
	}
	return nil
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [env]",
		Short: "List registered apps, or the apps bound to an environment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return c.listRemote(cmd.Context(), args[0])
			}
			return c.listLocal(cmd.Context())
		},
	}
}

func (c *cli) listLocal(ctx context.Context) error {
	reg, err := c.store().Load(ctx)
	if err != nil {
		return err
	}
	categories := reg.Categories
	if len(categories) == 0 {
		categories = category.DefaultCategories()
	}

	heading(c.out, "📱 Available Apps Registry")
	var order []string
	byCategory := map[string][]string{}
	for _, key := range reg.Enabled() {
		cat := reg.Apps[key].CategoryOrDefault()
		if _, seen := byCategory[cat]; !seen {
			order = append(order, cat)
		}
		byCategory[cat] = append(byCategory[cat], key)
	}
	for _, cat := range order {
		fmt.Fprintf(c.out, "\n📂 %s:\n", categories.Name(cat))
		for _, key := range byCategory[cat] {
			app := reg.Apps[key]
			fmt.Fprintf(c.out, "  - %s (%s)\n", key, app.Name)
			fmt.Fprintf(c.out, "    Dev App ID: %s\n", orDefault(app.Environments["dev"].AppID, "Not set"))
			fmt.Fprintf(c.out, "    Prod App ID: %s\n", orDefault(app.Environments["prod"].AppID, "Not set"))
			if app.Description != "" {
				fmt.Fprintf(c.out, "    Description: %s\n", app.Description)
			}
			if h := app.History; h != nil {
				if h.LastExported != nil {
					fmt.Fprintf(c.out, "    Last Exported: %s\n", h.LastExported.Local().Format("2006-01-02 15:04:05"))
				}
				if h.LastImported != nil {
					fmt.Fprintf(c.out, "    Last Imported: %s\n", h.LastImported.Local().Format("2006-01-02 15:04:05"))
				}
			}
		}
	}
	fmt.Fprintln(c.out, faint("\nTo list the apps of an environment: kintone-cli list dev|prod"))
	return nil
}

func (c *cli) listRemote(ctx context.Context, env string) error {
	apps, creds, err := c.manager().Registered(ctx, env)
	if err != nil {
		return err
	}
	heading(c.out, fmt.Sprintf("📱 Apps in %s (%s)", env, creds.Domain))
	if len(apps) == 0 {
		fmt.Fprintln(c.out, yellow("no registered apps"))
	}
	for _, app := range apps {
		fmt.Fprintf(c.out, "  - %s (%s)\n", app.Name, app.Key)
		fmt.Fprintf(c.out, "    App ID: %s\n", app.AppID)
		fmt.Fprintf(c.out, "    Category: %s\n", app.Category)
		if app.Description != "" {
			fmt.Fprintf(c.out, "    Description: %s\n", app.Description)
		}
	}
	fmt.Fprintln(c.out, faint("\nTo pull an app: kintone-cli pull <app> "+env))
	return nil
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [key title devAppId prodAppId [category] [description]]",
		Short: "Register a new app, prompting for missing values",
		Args:  cobra.MaximumNArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := c.store()
			reg, err := store.Load(ctx)
			if errors.Is(err, registry.ErrNotFound) {
				reg = &registry.Registry{Apps: map[string]registry.App{}}
			} else if err != nil {
				return err
			}

			seed := prompt.NewApp{}
			fields := []*string{&seed.Key, &seed.Title, &seed.DevAppID, &seed.ProdAppID, &seed.Category, &seed.Description}
			for i, arg := range args {
				*fields[i] = arg
			}
			if len(args) >= 4 && seed.Category == "" {
				seed.Category = category.Other
			}

			answers := seed
			if len(args) < 4 {
				answers, err = prompt.AskNewApp(ctx, c.driver, seed, categoryChoices(reg))
				if errors.Is(err, prompt.ErrAborted) {
					fmt.Fprintln(c.out, yellow("cancelled, registry unchanged"))
					return nil
				}
				if err != nil {
					return err
				}
			}

			app := registry.App{
				Name:        answers.Title,
				Description: answers.Description,
				Category:    answers.Category,
				Environments: map[string]registry.AppEnvironment{
					"dev":  {AppID: answers.DevAppID, Domain: reg.Environments["dev"].Domain},
					"prod": {AppID: answers.ProdAppID, Domain: reg.Environments["prod"].Domain},
				},
			}
			if err := reg.AddApp(answers.Key, app); err != nil {
				return fmt.Errorf("%w: %s", err, answers.Key)
			}
			if err := store.Save(ctx, reg); err != nil {
				return err
			}

			fmt.Fprintf(c.out, "%s App '%s' (%s) added to registry\n", green("✓"), answers.Key, answers.Title)
			fmt.Fprintf(c.out, "   Dev App ID: %s\n", answers.DevAppID)
			fmt.Fprintf(c.out, "   Prod App ID: %s\n", answers.ProdAppID)
			fmt.Fprintf(c.out, "   Category: %s\n", reg.Apps[answers.Key].Category)
			return nil
		},
	}
}

func categoryChoices(reg *registry.Registry) []prompt.CategoryChoice {
	categories := reg.Categories
	if len(categories) == 0 {
		categories = category.DefaultCategories()
	}
	out := make([]prompt.CategoryChoice, 0, len(categories))
	for _, key := range categories.Keys() {
		out = append(out, prompt.CategoryChoice{Key: key, Name: categories.Name(key)})
	}
	return out
}
