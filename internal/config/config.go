package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/ascpricer/internal/model"
)

// Config holds all runtime configuration for an ascprice run.
type Config struct {
	DataDir    string // root of the reference data tree (<year>/<quarter>/addenda)
	ClaimFile  string // claim JSON; "-" reads stdin
	OutputPath string // optional parquet results file
	MueFile    string // optional YAML file of MUE unit limits
	CBSA       string // claim-level CBSA override for wage index lookup
	LogFormat  string // "text" or "json"
	Verbose    bool
}

// mueFile is the on-disk YAML structure for MUE limits.
type mueFile struct {
	Limits []model.MueLimit `yaml:"limits"`
}

// LoadMueLimits reads a YAML limits file and returns the limits keyed by
// HCPCS code. A duplicate code is a config error, not a silent override.
func LoadMueLimits(path string) (map[string]model.MueLimit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read MUE file: %w", err)
	}
	var mf mueFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse MUE file: %w", err)
	}
	limits := make(map[string]model.MueLimit, len(mf.Limits))
	for _, l := range mf.Limits {
		if l.Code == "" {
			return nil, fmt.Errorf("MUE entry with empty code")
		}
		if l.Limit < 1 {
			return nil, fmt.Errorf("MUE limit for %s must be positive, got %d", l.Code, l.Limit)
		}
		if _, dup := limits[l.Code]; dup {
			return nil, fmt.Errorf("duplicate MUE entry for %s", l.Code)
		}
		limits[l.Code] = l
	}
	return limits, nil
}

// Validate checks required fields and returns an error if the config is
// invalid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("--data-dir is required")
	}
	info, err := os.Stat(c.DataDir)
	if err != nil {
		return fmt.Errorf("data dir not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", c.DataDir)
	}
	if c.MueFile != "" {
		if _, err := os.Stat(c.MueFile); err != nil {
			return fmt.Errorf("MUE file not accessible: %w", err)
		}
	}
	return nil
}

// ValidateWithClaim checks the fields a pricing run needs on top of the
// base config.
func (c *Config) ValidateWithClaim() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ClaimFile == "" {
		return fmt.Errorf("--claim is required")
	}
	if c.ClaimFile != "-" {
		if _, err := os.Stat(c.ClaimFile); err != nil {
			return fmt.Errorf("claim file not accessible: %w", err)
		}
	}
	return nil
}
