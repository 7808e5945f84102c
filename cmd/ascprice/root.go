package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/ascpricer/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "ascprice",
	Short: "Medicare ASC claim pricer",
	Long:  "Prices ambulatory surgical center claims against the quarterly CMS fee schedule addenda: wage adjustment, payment indicators, MUE edits, and multiple procedure reduction.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DataDir, "data-dir", os.Getenv("ASC_DATA_DIR"), "Reference data root (or set ASC_DATA_DIR)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Emit per-line pricing detail")
}
