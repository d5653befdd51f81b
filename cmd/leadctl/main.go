package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xavierca1/oxyllium-leads/internal/bootstrap"
	"github.com/xavierca1/oxyllium-leads/internal/config"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "leadctl",
	Short:         "Operator tool for the Oxyllium lead pipeline",
	Long:          "Lists leads, edits the client recipient list, replays failed intakes and requests conversion reports.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		log = config.NewLoggerTo(cfg.Log, os.Stderr)
		return nil
	},
}

// openApp builds the same components the server runs with.
func openApp(cmd *cobra.Command) (*bootstrap.App, error) {
	return bootstrap.New(cmd.Context(), cfg, log)
}

func init() {
	rootCmd.AddCommand(leadsCmd, configCmd, intakeCmd, reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
