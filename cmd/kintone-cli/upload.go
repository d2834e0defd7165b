package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-kintone-schema/pkg/customize"
)

func (c *cli) uploadCmd() *cobra.Command {
	var env string
	cmd := &cobra.Command{
		Use:   "upload <app>",
		Short: "Upload src/apps/<app>/dev.json (or pro.json) with kintone-customize-uploader",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("env") {
				env = os.Getenv("NODE_ENV")
			}
			target, err := customize.NormalizeEnv(env)
			if err != nil {
				return err
			}
			uploader := customize.New(c.cfg.Root,
				customize.WithRunner(c.runner),
				customize.WithCredentials(c.cfg),
				customize.WithLogger(c.logger),
			)
			if err := uploader.Upload(cmd.Context(), args[0], target); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s uploaded %s\n", green("✓"), customize.ManifestPath(args[0], target))
			return nil
		},
	}
	cmd.Flags().StringVar(&env, "env", "dev", "target environment: dev or prod (defaults to NODE_ENV)")
	return cmd
}
