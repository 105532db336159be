package commands

import (
	"fmt"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/config"
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the image into an OCI layout directory",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.app.Build(cmd.Context(), c.settings)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), stageTable(res.Stages))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", res.OutputDir, res.Manifest)
			return err
		},
	}
	cmd.Flags().StringP(config.KeyOutputDir, "o", "", "Image layout directory (default <context>/image)")
	cmd.Flags().BoolP(config.KeyNoCache, "n", false, "Rebuild every stage, bypassing the layer store")
	return cmd
}

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the stage keys and which stages are cached",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.app.Plan(cmd.Context(), c.settings)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), stageTable(res.Stages))
			return err
		},
	}
	cmd.Flags().BoolP(config.KeyNoCache, "n", false, "Plan as if the layer store were empty")
	return cmd
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the layer store",
		Args:  exactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.app.Clean(c.settings)
		},
	}
}
