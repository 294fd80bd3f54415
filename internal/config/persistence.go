// file: internal/config/persistence.go
// version: 2.0.0
// guid: 9c8d7e6f-5a4b-3c2d-1e0f-9a8b7c6d5e4f

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFileName is the file viper looks for in the home directory.
const DefaultConfigFileName = ".reading-report.yaml"

// DefaultConfigFilePath returns $HOME/.reading-report.yaml, or "" if the
// home directory cannot be determined.
func DefaultConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultConfigFileName)
}

// SaveConfigFile writes cfg as YAML to path. Secrets are left out so the
// file can be shared; keep GOOGLE_BOOKS_API_KEY in the environment or .env.
// An existing file is only replaced when overwrite is set.
func SaveConfigFile(path string, cfg Config, overwrite bool) error {
	if path == "" {
		return fmt.Errorf("no config file path")
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	cfg.GoogleBooksAPIKey = ""
	fileConfig := map[string]any{
		"input":                       cfg.InputPath,
		"output_pdf":                  cfg.OutputPDF,
		"missing_report":              cfg.MissingReport,
		"covers_dir":                  cfg.CoversDir,
		"workers":                     cfg.Workers,
		"lookup_timeout":              cfg.LookupTimeout.String(),
		"requests_per_second":         cfg.RequestsPerSecond,
		"openlibrary_covers_base_url": cfg.OpenLibraryCoversBaseURL,
		"google_books_base_url":       cfg.GoogleBooksBaseURL,
		"progress":                    cfg.Progress,
		"verbose":                     cfg.Verbose,
	}
	if cfg.MetricsFile != "" {
		fileConfig["metrics_file"] = cfg.MetricsFile
	}

	data, err := yaml.Marshal(fileConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
