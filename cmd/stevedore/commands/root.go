// Package commands implements the CLI commands for the stevedore image tool.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/config"
	"github.com/javila-dev/lyvio-plaftorm/internal/app"
	"github.com/javila-dev/lyvio-plaftorm/internal/build"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.trai.ch/zerr"
)

// ErrUsage marks errors caused by invalid flags or arguments.
var ErrUsage = zerr.New("invalid usage")

// CLI represents the command line interface for stevedore.
type CLI struct {
	app      *app.App
	logger   ports.Logger
	viper    *viper.Viper
	settings config.Settings
	rootCmd  *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App, logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "stevedore",
		Short:         "Build and run the lyvio service image",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP(config.KeyDescriptor, "f", "", "Image descriptor (default <context>/stevedore.yaml)")
	rootCmd.PersistentFlags().StringP(config.KeyContext, "C", ".", "Build context directory")
	rootCmd.PersistentFlags().String(config.KeyStateDir, "", "Layer store directory (default <context>/.stevedore)")
	rootCmd.PersistentFlags().String(config.KeyLogFormat, config.LogFormatPretty, "Log format: pretty or json")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Join(ErrUsage, err)
	})

	c := &CLI{
		app:     a,
		logger:  logger,
		viper:   config.NewViper(),
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRunE = c.resolveSettings

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newExecCmd())
	rootCmd.AddCommand(c.newPrepareCmd())
	rootCmd.AddCommand(c.newProbeCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// resolveSettings merges the flags of the running command with the environment and
// the defaults, and switches the log format.
func (c *CLI) resolveSettings(cmd *cobra.Command, _ []string) error {
	if err := config.BindFlags(c.viper, cmd.Flags()); err != nil {
		return err
	}
	s, err := config.ResolveSettings(c.viper)
	if err != nil {
		return errors.Join(ErrUsage, err)
	}
	c.settings = s

	if l, ok := c.logger.(interface{ SetJSON(enable bool) }); ok {
		l.SetJSON(s.LogFormat == config.LogFormatJSON)
	}
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// Settings returns the settings the last command ran with.
func (c *CLI) Settings() config.Settings {
	return c.settings
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return domain.Tag(ErrUsage, "reason", fmt.Sprintf("accepts %d arg(s), received %d", n, len(args)))
		}
		return nil
	}
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}
