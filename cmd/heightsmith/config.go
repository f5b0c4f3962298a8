package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/fill"
)

const defaultConfigPath = "heightsmith.yaml"

// Config holds CLI configuration.
type Config struct {
	ZipPath     string `yaml:"zip_path"`
	SizeKm      int    `yaml:"size_km"`
	BitDepth    int    `yaml:"bit_depth"`
	FillMissing bool   `yaml:"fill_missing"`
	Method      string `yaml:"method"`
	OutputDir   string `yaml:"output_dir"`
	Workers     int    `yaml:"workers"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	opts := heightsmith.DefaultOptions()
	return Config{
		ZipPath:     "data/terr50_gagg_gb.zip",
		SizeKm:      opts.SizeKm,
		BitDepth:    opts.BitDepth,
		FillMissing: opts.FillMissing,
		Method:      opts.Method.String(),
		OutputDir:   "heightmaps",
		Workers:     opts.Workers,
	}
}

// LoadFile loads config from a YAML file over the defaults.
// If the file doesn't exist, returns defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadConfig resolves configuration for cmd.
// Flags take precedence over environment variables, which take precedence
// over the config file.
func LoadConfig(cmd *cobra.Command) (Config, error) {
	path := getConfigString(cmd, "config", "HEIGHTSMITH_CONFIG", defaultConfigPath)
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}

	cfg.ZipPath = getConfigString(cmd, "zip-path", "HEIGHTSMITH_ZIP_PATH", cfg.ZipPath)
	cfg.SizeKm = getConfigInt(cmd, "size", "HEIGHTSMITH_SIZE_KM", cfg.SizeKm)
	cfg.BitDepth = getConfigInt(cmd, "bit-depth", "HEIGHTSMITH_BIT_DEPTH", cfg.BitDepth)
	cfg.FillMissing = getConfigBool(cmd, "fill-missing", "HEIGHTSMITH_FILL_MISSING", cfg.FillMissing)
	if cmd.Flags().Changed("no-fill-missing") {
		off, _ := cmd.Flags().GetBool("no-fill-missing")
		cfg.FillMissing = !off
	}
	cfg.Method = getConfigString(cmd, "method", "HEIGHTSMITH_METHOD", cfg.Method)
	cfg.OutputDir = getConfigString(cmd, "output-dir", "HEIGHTSMITH_OUTPUT_DIR", cfg.OutputDir)
	cfg.Workers = getConfigInt(cmd, "workers", "HEIGHTSMITH_WORKERS", cfg.Workers)

	return cfg, nil
}

// Options converts the config into library options.
func (c Config) Options() (heightsmith.Options, error) {
	method, err := fill.ParseMethod(c.Method)
	if err != nil {
		return heightsmith.Options{}, err
	}
	opts := heightsmith.Options{
		SizeKm:      c.SizeKm,
		BitDepth:    c.BitDepth,
		FillMissing: c.FillMissing,
		Method:      method,
		Workers:     c.Workers,
	}
	return opts, opts.Validate()
}

// getConfigString gets a string value from flag, then env, then default
func getConfigString(cmd *cobra.Command, flagName, envName, defaultValue string) string {
	if cmd.Flags().Changed(flagName) {
		val, _ := cmd.Flags().GetString(flagName)
		return val
	}
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return defaultValue
}

// getConfigInt gets an int value from flag, then env, then default
func getConfigInt(cmd *cobra.Command, flagName, envName string, defaultValue int) int {
	if cmd.Flags().Changed(flagName) {
		val, _ := cmd.Flags().GetInt(flagName)
		return val
	}
	if v := os.Getenv(envName); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

// getConfigBool gets a bool value from flag, then env, then default
func getConfigBool(cmd *cobra.Command, flagName, envName string, defaultValue bool) bool {
	if cmd.Flags().Changed(flagName) {
		val, _ := cmd.Flags().GetBool(flagName)
		return val
	}
	if v := os.Getenv(envName); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
