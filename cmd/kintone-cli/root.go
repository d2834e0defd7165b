package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-kintone-schema/internal/config"
	"github.com/goliatone/go-kintone-schema/internal/logging"
	"github.com/goliatone/go-kintone-schema/pkg/appconfig"
	"github.com/goliatone/go-kintone-schema/pkg/ginue"
	"github.com/goliatone/go-kintone-schema/pkg/prompt"
	"github.com/goliatone/go-kintone-schema/pkg/registry"
)

// cli carries the collaborators shared by every command. Tests replace the
// runner, prompt driver and writers.
type cli struct {
	out    io.Writer
	errOut io.Writer
	runner ginue.Runner
	driver prompt.Driver
	now    func() time.Time

	cfg    *config.Config
	logger *slog.Logger
}

func newCLI() *cli {
	return &cli{
		out:    os.Stdout,
		errOut: os.Stderr,
		runner: ginue.ExecRunner{},
		driver: prompt.NewSurvey(),
		now:    time.Now,
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kintone-cli",
		Short:         "kintone app schema documentation and ginue sync tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	pf := root.PersistentFlags()
	pf.String("root", ".", "project root holding design/, apps-registry.json and .env")
	pf.String("design-dir", "design", "design directory, relative to --root")
	pf.String("registry", "apps-registry.json", "apps registry file (.json or .yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(
		c.schemaCmd(),
		c.pullCmd(),
		c.pushCmd(),
		c.listCmd(),
		c.addCmd(),
		c.appsCmd(),
		c.uploadCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logging.New(c.errOut, cfg.LogLevel)
	c.logger.Debug("config loaded", "root", cfg.Root, "design", cfg.DesignDir, "registry", cfg.Registry)
	return nil
}

func (c *cli) store() *registry.FileStore {
	return registry.NewFileStore(c.cfg.Registry)
}

func (c *cli) manager() *ginue.Manager {
	return ginue.NewManager(c.cfg.Root, c.store(),
		ginue.WithRunner(c.runner),
		ginue.WithCredentials(c.cfg),
		ginue.WithLogger(c.logger),
		ginue.WithDesignDir(c.cfg.AppsDir()),
		ginue.WithClock(c.now),
	)
}

func (c *cli) workspace() *appconfig.Workspace {
	return appconfig.NewWorkspace(c.cfg.DesignDir)
}
