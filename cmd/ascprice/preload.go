package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/ascpricer/internal/exitcode"
	"github.com/gyeh/ascpricer/internal/logging"
	"github.com/gyeh/ascpricer/internal/refdata"
)

var preloadCmd = &cobra.Command{
	Use:   "preload",
	Short: "Load and snapshot every reference period up front",
	RunE:  runPreload,
}

func init() {
	rootCmd.AddCommand(preloadCmd)
}

func runPreload(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	store := refdata.NewStore(cfg.DataDir, log)
	n, err := store.Preload()
	if err != nil {
		log.Error().Err(err).Msg("preload failed")
		os.Exit(exitcode.DataError)
	}

	fmt.Printf("Preload complete: %d reference periods loaded\n", n)
	return nil
}
