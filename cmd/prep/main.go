package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"review_prep/internal/adapters/observability"
	"review_prep/internal/shared"
)

var cfg shared.Config

var rootCmd = &cobra.Command{
	Use:   "prep",
	Short: "Clean, balance and label review datasets for sentiment training",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// set global logger (console in dev, JSON otherwise)
		log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	},
	SilenceUsage: true,
}

func main() {
	cfg = shared.Load()
	rootCmd.AddCommand(runCmd, reportCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("prep failed")
		os.Exit(1)
	}
}
