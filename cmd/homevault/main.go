// Command homevault documents and backs up HomeKit/Matter setup codes.
//
// It combines a passive mDNS scanner for HomeKit and Matter
// advertisements, an encrypted vault for user-entered setup codes, a
// manually curated accessory inventory, and CSV/JSON/text export of the
// combined data. All interaction happens through an interactive shell.
//
// Usage:
//
//	homevault [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-data-dir string   Data directory (default "~/.homevault")
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-interface string  Restrict mDNS browsing to one network interface
//	-scan-log string   Append scan events to a binary log file
//
// The vault passphrase is read from the HOMEVAULT_PASSPHRASE environment
// variable.
//
// Examples:
//
//	# Start with defaults
//	HOMEVAULT_PASSPHRASE=secret homevault
//
//	# Scan on a specific interface with debug logging
//	HOMEVAULT_PASSPHRASE=secret homevault -interface en0 -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/homevault-project/homevault-go/cmd/homevault/interactive"
	"github.com/homevault-project/homevault-go/pkg/inventory"
	"github.com/homevault-project/homevault-go/pkg/scanlog"
	"github.com/homevault-project/homevault-go/pkg/scanner"
	"github.com/homevault-project/homevault-go/pkg/vault"
)

var config Config

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&config.DataDir, "data-dir", defaultDataDir(), "Data directory")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&config.Interface, "interface", "", "Restrict mDNS browsing to one network interface")
	flag.StringVar(&config.ScanLog, "scan-log", "", "Append scan events to a binary log file")
}

func main() {
	flag.Parse()

	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	if config.ConfigFile != "" {
		if err := loadConfigFile(config.ConfigFile, &config, setFlags); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	logger := setupLogging(config.LogLevel)

	passphrase := os.Getenv("HOMEVAULT_PASSPHRASE")
	if passphrase == "" {
		fmt.Fprintln(os.Stderr, "HOMEVAULT_PASSPHRASE is not set")
		os.Exit(1)
	}

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	secretStore, err := vault.OpenBoltStore(filepath.Join(config.DataDir, "vault.db"), []byte(passphrase))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open vault store: %v\n", err)
		os.Exit(1)
	}
	defer secretStore.Close()

	prefStore, err := inventory.OpenBoltPrefStore(filepath.Join(config.DataDir, "prefs.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open preference store: %v\n", err)
		os.Exit(1)
	}
	defer prefStore.Close()

	photos := vault.NewPhotoStore(filepath.Join(config.DataDir, "photos"))

	codeVault := vault.New(secretStore, photos)
	if err := codeVault.Load(); err != nil {
		logger.Warn("vault load failed, starting empty", "error", err)
	}

	accessories := inventory.New(prefStore)
	if err := accessories.Load(); err != nil {
		logger.Warn("inventory load failed, starting empty", "error", err)
	}

	scanCfg := scanner.DefaultConfig()
	scanCfg.Interface = config.Interface
	scan := scanner.New(scanCfg)
	scan.SetLogger(buildScanLogger(logger))

	logger.Info("homevault started",
		"data_dir", config.DataDir,
		"codes", codeVault.Count(),
		"accessories", accessories.Count())

	shell, err := interactive.New(scan, codeVault, accessories)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create shell: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	shell.Run(ctx, cancel)

	scan.StopScan()
	logger.Info("goodbye")
}

// setupLogging configures the default slog logger and returns it.
func setupLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// buildScanLogger wires the optional file log together with the slog
// adapter.
func buildScanLogger(logger *slog.Logger) scanlog.Logger {
	adapter := scanlog.NewSlogAdapter(logger)
	if config.ScanLog == "" {
		return adapter
	}

	fileLog, err := scanlog.NewFileLogger(config.ScanLog)
	if err != nil {
		logger.Warn("scan log disabled", "path", config.ScanLog, "error", err)
		return adapter
	}
	return scanlog.NewMultiLogger(fileLog, adapter)
}
