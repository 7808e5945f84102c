package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/ascpricer/internal/config"
	"github.com/gyeh/ascpricer/internal/exitcode"
	"github.com/gyeh/ascpricer/internal/export"
	"github.com/gyeh/ascpricer/internal/logging"
	"github.com/gyeh/ascpricer/internal/model"
	"github.com/gyeh/ascpricer/internal/pricer"
	"github.com/gyeh/ascpricer/internal/refdata"
)

var (
	wageCBSA string
	geoCBSA  string
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a claim and print the result as JSON",
	RunE:  runPrice,
}

func init() {
	f := priceCmd.Flags()
	f.StringVar(&cfg.ClaimFile, "claim", "", "Claim JSON file, or - for stdin (required)")
	f.StringVar(&cfg.OutputPath, "out", "", "Also write line results to a Parquet file")
	f.StringVar(&cfg.MueFile, "mue-file", "", "YAML file of MUE unit limits")
	f.StringVar(&cfg.CBSA, "cbsa", "", "Override the claim-level CBSA")
	f.StringVar(&wageCBSA, "wage-cbsa", "", "Provider wage index CBSA")
	f.StringVar(&geoCBSA, "geo-cbsa", "", "Provider geographic CBSA")
	_ = priceCmd.MarkFlagRequired("claim")
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)

	if err := cfg.ValidateWithClaim(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	claim, err := readClaim(cfg.ClaimFile)
	if err != nil {
		log.Error().Err(err).Msg("claim validation failed")
		os.Exit(exitcode.ValidationError)
	}
	if cfg.CBSA != "" {
		claim.CBSA = cfg.CBSA
	}

	opts := pricer.Options{}
	if wageCBSA != "" || geoCBSA != "" {
		opts.Provider = &model.ProviderRecord{
			CCN:            claim.ProviderCCN,
			WageIndexCBSA:  wageCBSA,
			GeographicCBSA: geoCBSA,
		}
	}
	if cfg.MueFile != "" {
		limits, err := config.LoadMueLimits(cfg.MueFile)
		if err != nil {
			log.Error().Err(err).Msg("MUE limits failed to load")
			os.Exit(exitcode.UsageError)
		}
		opts.MueLimits = limits
	}

	store := refdata.NewStore(cfg.DataDir, log)
	result, err := pricer.New(store, log).Price(claim, opts)
	if err != nil {
		var nrd *refdata.NoReferenceDataError
		switch {
		case errors.As(err, &nrd):
			log.Error().Err(err).Msg("no reference data for claim date")
			os.Exit(exitcode.DataError)
		default:
			log.Error().Err(err).Msg("pricing failed")
			os.Exit(exitcode.PricingError)
		}
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("result encoding failed")
		os.Exit(exitcode.ExportError)
	}
	fmt.Println(string(out))

	if cfg.OutputPath != "" {
		if err := export.WriteFile(cfg.OutputPath, claim, result); err != nil {
			log.Error().Err(err).Msg("parquet export failed")
			os.Exit(exitcode.ExportError)
		}
		log.Info().Str("path", cfg.OutputPath).Int("lines", len(result.Lines)).Msg("results exported")
	}
	return nil
}

// readClaim loads and structurally validates the claim JSON.
func readClaim(path string) (*model.Claim, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read claim: %w", err)
	}

	var claim model.Claim
	if err := json.Unmarshal(data, &claim); err != nil {
		return nil, fmt.Errorf("parse claim: %w", err)
	}
	if claim.ThruDate.IsZero() {
		return nil, fmt.Errorf("claim has no thru_date")
	}
	if len(claim.Lines) == 0 {
		return nil, fmt.Errorf("claim has no lines")
	}
	for i, line := range claim.Lines {
		if line.HCPCS == "" {
			return nil, fmt.Errorf("line %d has no HCPCS code", i+1)
		}
	}
	return &claim, nil
}
