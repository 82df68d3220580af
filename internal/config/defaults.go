// Package config provides centralized configuration defaults for the
// translator.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFile represents the structure of config.toml
type ConfigFile struct {
	Defaults Defaults `toml:"defaults"`
}

// Defaults holds all default values
type Defaults struct {
	DataDir             string  `toml:"data_dir"`
	ResponsesFile       string  `toml:"responses_file"`
	Preference          string  `toml:"preference"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	SuggestDistance     int     `toml:"suggest_distance"`
	SuggestLimit        int     `toml:"suggest_limit"`
	Metrics             bool    `toml:"metrics"`
	MetricsDir          string  `toml:"metrics_dir"`
	Quiet               bool    `toml:"quiet"`
	Verbose             bool    `toml:"verbose"`
}

// Hardcoded fallback defaults (used if config.toml not found)
var fallbackDefaults = Defaults{
	DataDir:             "data",
	ResponsesFile:       "data/chat_responses.json",
	Preference:          "mixed",
	ConfidenceThreshold: 0.6,
	SuggestDistance:     2,
	SuggestLimit:        3,
	Metrics:             true,
	MetricsDir:          "output",
	Quiet:               false,
	Verbose:             false,
}

// loaded holds the parsed config (nil if not loaded yet)
var loaded *ConfigFile

// Load reads config.toml from the project root
func Load() *ConfigFile {
	if loaded != nil {
		return loaded
	}

	// Try to find config.toml by walking up from executable or cwd
	paths := []string{
		"config.toml",
		"../config.toml",
		"../../config.toml",
	}

	// Also try from executable location
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, "config.toml"),
			filepath.Join(dir, "..", "config.toml"),
			filepath.Join(dir, "..", "..", "config.toml"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			var cfg ConfigFile
			if _, err := toml.DecodeFile(path, &cfg); err == nil {
				loaded = &cfg
				return loaded
			}
		}
	}

	// Return fallback if config.toml not found
	loaded = &ConfigFile{Defaults: fallbackDefaults}
	return loaded
}

// Convenience accessors that load config on first access
var (
	DefaultDataDir             = func() string { return Load().Defaults.DataDir }
	DefaultResponsesFile       = func() string { return Load().Defaults.ResponsesFile }
	DefaultPreference          = func() string { return Load().Defaults.Preference }
	DefaultConfidenceThreshold = func() float64 { return Load().Defaults.ConfidenceThreshold }
	DefaultSuggestDistance     = func() int { return Load().Defaults.SuggestDistance }
	DefaultSuggestLimit        = func() int { return Load().Defaults.SuggestLimit }
	DefaultMetrics             = func() bool { return Load().Defaults.Metrics }
	DefaultMetricsDir          = func() string { return Load().Defaults.MetricsDir }
	DefaultQuiet               = func() bool { return Load().Defaults.Quiet }
	DefaultVerbose             = func() bool { return Load().Defaults.Verbose }
)
