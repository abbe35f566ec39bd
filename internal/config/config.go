// Package config loads bankrec.yaml settings with BANKREC_* environment
// overrides, since the pipeline normally runs headless with secrets
// injected through the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix for environment overrides (BANKREC_WORK_DIR,
// BANKREC_MATCHING_MIN_SCORE, ...).
const envPrefix = "bankrec"

// Config represents the top-level bankrec.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Export   ExportConfig   `yaml:"export"`
	Matching MatchingConfig `yaml:"matching"`
	WorkDir  string         `yaml:"work_dir" envconfig:"WORK_DIR"`
}

// BusinessConfig identifies the entity the bank reports on.
type BusinessConfig struct {
	Name string `yaml:"name" envconfig:"NAME"`
}

// ExportConfig controls the exported row constants and invoice links.
type ExportConfig struct {
	AccountTitle       string `yaml:"account_title" envconfig:"ACCOUNT_TITLE"`
	InvoiceURLTemplate string `yaml:"invoice_url_template" envconfig:"INVOICE_URL_TEMPLATE"`
	LinkLabel          string `yaml:"link_label" envconfig:"LINK_LABEL"`
}

// MatchingConfig controls invoice-match acceptance.
type MatchingConfig struct {
	MinScore int `yaml:"min_score" envconfig:"MIN_SCORE"`
}

// Load reads a bankrec.yaml file, layering it over the defaults and
// applying environment overrides last. A missing file is not an error;
// defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Config file is optional.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			AccountTitle: "AR Account",
			LinkLabel:    "Open Invoice",
		},
		Matching: MatchingConfig{
			MinScore: 60,
		},
		WorkDir: filepath.Join(os.TempDir(), "bankrec"),
	}
}
