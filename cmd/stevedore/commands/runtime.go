package commands

import (
	"encoding/json"
	"fmt"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/config"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/spf13/cobra"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Prepare runtime directories, then run the service workers and the health monitor",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Serve(cmd.Context(), c.settings)
		},
	}
	cmd.Flags().String(config.KeyMetricsAddr, "", "Serve Prometheus metrics on this address")
	cmd.Flags().String(config.KeyStatusFile, domain.DefaultStatusFile, "Health status file")
	return cmd
}

func (c *CLI) newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec -- command [args...]",
		Short: "Run a one-off command as the service identity",
		Example: "  stevedore exec -- python manage.py migrate --noinput\n" +
			"  stevedore exec -- python manage.py collectstatic --noinput",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return domain.Tag(ErrUsage, "reason", "exec requires a command")
			}
			return c.app.Exec(cmd.Context(), c.settings, args)
		},
	}
}

func (c *CLI) newPrepareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Create the runtime directories owned by the service identity",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := c.app.Prepare(cmd.Context(), c.settings)
			if err != nil {
				return err
			}
			for _, r := range results {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s\n", r.Action, r.Path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *CLI) newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Run one health check and exit non-zero when it fails",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Probe(cmd.Context(), c.settings)
		},
	}
}

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the last health status reported by serve",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := c.app.Status(c.settings)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		},
	}
	cmd.Flags().String(config.KeyStatusFile, domain.DefaultStatusFile, "Health status file")
	return cmd
}
