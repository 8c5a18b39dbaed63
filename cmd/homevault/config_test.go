package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, "data_dir: /tmp/hv\nlog_level: debug\ninterface: en0\n")

	cfg := Config{DataDir: "default", LogLevel: "info"}
	if err := loadConfigFile(path, &cfg, nil); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DataDir != "/tmp/hv" {
		t.Errorf("expected file data_dir, got %q", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected file log_level, got %q", cfg.LogLevel)
	}
	if cfg.Interface != "en0" {
		t.Errorf("expected file interface, got %q", cfg.Interface)
	}
}

func TestLoadConfigFileFlagsWin(t *testing.T) {
	path := writeConfig(t, "data_dir: /tmp/from-file\nlog_level: error\n")

	cfg := Config{DataDir: "/tmp/from-flag", LogLevel: "info"}
	setFlags := map[string]bool{"data-dir": true}
	if err := loadConfigFile(path, &cfg, setFlags); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DataDir != "/tmp/from-flag" {
		t.Errorf("expected flag value to win, got %q", cfg.DataDir)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected file value for unset flag, got %q", cfg.LogLevel)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	cfg := Config{}
	if err := loadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg, nil); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeConfig(t, "data_dir: [not a string\n")
	if err := loadConfigFile(path, &cfg, nil); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
