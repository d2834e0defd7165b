package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-kintone-schema/pkg/appconfig"
)

func (c *cli) appsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Inspect and scaffold per-app app.config.json files",
	}
	cmd.AddCommand(
		c.appsListCmd(),
		c.appsFilterCmd(),
		c.appsStatusCmd(),
		c.appsCreateCmd(),
		c.appsGroupsCmd(),
	)
	return cmd
}

type criteriaFlags struct {
	enabled  bool
	tags     []string
	priority string
	env      string
}

func (f *criteriaFlags) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.enabled, "enabled", false, "only enabled apps")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "apps carrying any of these tags")
	cmd.Flags().StringVar(&f.priority, "priority", "", "apps with this priority")
	cmd.Flags().StringVar(&f.env, "env", "", "apps available in this environment")
}

func (f *criteriaFlags) criteria() (appconfig.Criteria, error) {
	priority, err := appconfig.ParsePriority(f.priority)
	if err != nil {
		return appconfig.Criteria{}, err
	}
	c := appconfig.Criteria{Tags: f.tags, Priority: priority, Environment: f.env}
	if f.enabled {
		enabled := true
		c.Enabled = &enabled
	}
	return c, nil
}

func (c *cli) appsListCmd() *cobra.Command {
	var flags criteriaFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List app configs with optional filtering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}
			ws := c.workspace()
			all, err := ws.LoadAll()
			if err != nil {
				return err
			}
			apps := appconfig.Filter(all, criteria)
			if len(apps) == 0 {
				fmt.Fprintln(c.out, yellow("No apps found matching the criteria."))
				return nil
			}

			heading(c.out, "📱 Available Apps")
			for _, app := range apps {
				printAppConfig(c, app)
			}

			groups, err := ws.LoadGroups()
			if err != nil {
				return err
			}
			names := appconfig.Names(apps)
			fmt.Fprintln(c.out, "\n📂 App Groups:")
			for _, group := range groups.Names() {
				if members := groups.Members(group, names); len(members) > 0 {
					fmt.Fprintf(c.out, "   %s: %s\n", group, strings.Join(members, ", "))
				}
			}
			if enabled := appconfig.EnabledNames(apps); len(enabled) > 0 {
				fmt.Fprintln(c.out, faint("\nPull enabled apps: kintone-cli pull "+strings.Join(enabled, ",")+" dev"))
			}
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func printAppConfig(c *cli, app appconfig.App) {
	if app.Config == nil {
		fmt.Fprintf(c.out, "\n🔸 %s (No config file)\n", app.Name)
		return
	}
	cfg := app.Config
	status := red("●")
	if cfg.IsEnabled() {
		status = green("●")
	}
	fmt.Fprintf(c.out, "\n%s %s\n", status, app.Name)
	fmt.Fprintf(c.out, "   Description: %s\n", orDefault(cfg.Description, "No description"))
	if len(cfg.Tags) > 0 {
		fmt.Fprintf(c.out, "   Tags: %s\n", strings.Join(cfg.Tags, ", "))
	}
	if cfg.Priority != nil {
		fmt.Fprintf(c.out, "   Priority: %d\n", *cfg.Priority)
	}
	for _, env := range appconfig.Environments {
		e, ok := cfg.Environments[env]
		suffix := ""
		if ok && e.Enabled != nil && !*e.Enabled {
			suffix = " (Disabled)"
		}
		fmt.Fprintf(c.out, "   %s App ID: %s%s\n", strings.ToUpper(env), orDefault(string(e.AppID), "Not set"), suffix)
		last := "Never"
		if e.LastExported != nil && *e.LastExported != "" {
			last = *e.LastExported
		}
		fmt.Fprintf(c.out, "   Last Export (%s): %s\n", env, last)
	}
}

func (c *cli) appsFilterCmd() *cobra.Command {
	var flags criteriaFlags
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the app names matching the criteria",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}
			all, err := c.workspace().LoadAll()
			if err != nil {
				return err
			}
			names := appconfig.Names(appconfig.Filter(all, criteria))
			heading(c.out, "🔍 Filtered Results")
			if len(names) == 0 {
				fmt.Fprintln(c.out, yellow("No apps match the filter criteria."))
				return nil
			}
			fmt.Fprintf(c.out, "Found %d apps:\n", len(names))
			for _, name := range names {
				fmt.Fprintf(c.out, "  - %s\n", name)
			}
			fmt.Fprintln(c.out, faint("\nkintone-cli pull "+strings.Join(names, ",")+" dev"))
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func (c *cli) appsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <app>",
		Short: "Show app ids, domains and exported design files per environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := c.workspace().Status(args[0])
			if err != nil {
				return err
			}
			heading(c.out, "📊 Status for "+status.App)
			for _, env := range status.Environments {
				files := red("not found")
				if env.HasFiles() {
					files = green("available")
				}
				fmt.Fprintf(c.out, "\n%s Environment:\n", strings.ToUpper(env.Environment))
				fmt.Fprintf(c.out, "   App ID: %s\n", orDefault(env.AppID, "Not set"))
				fmt.Fprintf(c.out, "   Domain: %s\n", orDefault(env.Domain, "Not set"))
				fmt.Fprintf(c.out, "   Design Files: %s\n", files)
				fmt.Fprintf(c.out, "   Last Export: %s\n", orDefault(env.LastExported, "Never"))
				fmt.Fprintf(c.out, "   Last Import: %s\n", orDefault(env.LastImported, "Never"))
				if env.HasFiles() {
					fmt.Fprintf(c.out, "   Files: %s\n", strings.Join(env.Files, ", "))
				}
			}
			return nil
		},
	}
}

func (c *cli) appsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <app> <devAppId> <prodAppId> [description]",
		Short: "Scaffold design/apps/<app> with an app.config.json",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := ""
			if len(args) == 4 {
				description = args[3]
			}
			dir, err := c.workspace().Create(args[0], args[1], args[2], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s Created app config for '%s'\n", green("✓"), args[0])
			fmt.Fprintf(c.out, "   Directory: %s\n", dir)
			fmt.Fprintln(c.out, faint("   Next: kintone-cli pull "+args[0]+" dev"))
			return nil
		},
	}
}

func (c *cli) appsGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "Show the app groups from design/app-groups.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups, err := c.workspace().LoadGroups()
			if err != nil {
				return err
			}
			heading(c.out, "📂 App Groups")
			names := groups.Names()
			if len(names) == 0 {
				fmt.Fprintln(c.out, "No app groups defined.")
				return nil
			}
			for _, name := range names {
				group := groups.AppGroups[name]
				fmt.Fprintf(c.out, "\n%s\n", bold(name))
				fmt.Fprintf(c.out, "   Description: %s\n", group.Description)
				fmt.Fprintf(c.out, "   Apps: %s\n", orDefault(strings.Join(group.Apps, ", "), "None"))
			}
			if groups.DefaultGroup != "" {
				fmt.Fprintf(c.out, "\nDefault Group: %s\n", groups.DefaultGroup)
			}
			return nil
		},
	}
}
