package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the resolved runtime configuration. Flag values override
// the config file.
type Config struct {
	ConfigFile string `yaml:"-"`

	// DataDir is where the vault, preferences, and photos live.
	DataDir string `yaml:"data_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Interface restricts mDNS browsing to one network interface.
	Interface string `yaml:"interface"`

	// ScanLog is an optional path for the binary scan event log.
	ScanLog string `yaml:"scan_log"`
}

// defaultDataDir returns ~/.homevault, falling back to the working
// directory when the home directory cannot be determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".homevault"
	}
	return filepath.Join(home, ".homevault")
}

// loadConfigFile reads a YAML config file into cfg. Fields already set
// on the command line keep their flag values.
func loadConfigFile(path string, cfg *Config, setFlags map[string]bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.DataDir != "" && !setFlags["data-dir"] {
		cfg.DataDir = fileCfg.DataDir
	}
	if fileCfg.LogLevel != "" && !setFlags["log-level"] {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.Interface != "" && !setFlags["interface"] {
		cfg.Interface = fileCfg.Interface
	}
	if fileCfg.ScanLog != "" && !setFlags["scan-log"] {
		cfg.ScanLog = fileCfg.ScanLog
	}
	return nil
}
