package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"risk-mcs/internal/config"
	"risk-mcs/internal/logging"
	"risk-mcs/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "risk-mcs",
	Short: "RISK-MCS is a Monte-Carlo-Simulation engine for project risk registers",
	Long: `Simulates a register of independent project risks (likelihood, triangular delay and cost ranges,
project-kill events) over thousands of trials and reports success, kill and over-budget rates,
percentiles and histograms. Without a subcommand it serves the engine as an MCP server on stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetLevel(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		if err := logging.Init(verbose, cfg.LogDir); err != nil {
			return err
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("RISK-MCS starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server, err := mcp.NewServer(cfg, Version)
		if err != nil {
			return err
		}
		return server.Start(ctx)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
