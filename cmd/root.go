package cmd

import (
	"fmt"
	"io"

	"laundry/internal/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

// app carries what every subcommand shares once the root command has set up.
type app struct {
	config    Config
	logger    zerolog.Logger
	logCloser io.Closer
}

var current app

var rootCmd = &cobra.Command{
	Use:   "laundry",
	Short: "Laundry logistics backend",
	Long: `Backend for a laundry pickup and delivery service: orders move through
the processing pipeline, drivers run daily routes and clients are invoiced
for completed work.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg := LoadConfig()
		l, closer, err := logger.Setup(cfg.Log)
		if err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}
		current = app{config: cfg, logger: l, logCloser: closer}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if current.logCloser != nil {
			_ = current.logCloser.Close()
		}
	},
}

// Execute runs the command line.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		l := logger.WithComponent(current.logger, "cmd")
		l.Error().Err(err).Msg("Command execution failed")
		return err
	}
	return nil
}
