// Package cli provides the command-line interface for slotforge.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/slotforge-labs/slotforge/internal/cli/commands"
	"github.com/slotforge-labs/slotforge/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

var cfgFile string

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "slotforge",
		Short: "slotforge - slot record construction runtime",
		Long: `slotforge builds fixed-slot record instances from YAML type definitions.

Types declare an ordered slot list plus optional defaults, computed
expressions, and derived expressions. Instances are populated through a
staged assignment pipeline, and every type carries an order-independent
structural fingerprint used to detect definition drift.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := slog.New(slog.DiscardHandler)
			if cfg.Verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
			}

			cmd.SetContext(commands.WithRuntime(cmd.Context(), cfg, logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
slot record construction runtime
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./slotforge.yaml)")
	rootCmd.PersistentFlags().String("types-dir", "", "Path to type definitions directory")
	rootCmd.PersistentFlags().String("state", "", "Path to the fingerprint state database")
	rootCmd.PersistentFlags().String("environment", "", "Environment name (dev, staging, prod)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewFingerprintCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewBuildCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewSyncCommand())

	return rootCmd
}

// Execute runs the root command with context.
func Execute(ctx context.Context) int {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
