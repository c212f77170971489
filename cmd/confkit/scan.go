package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gobeaver/confkit"
	"github.com/gobeaver/confkit/catalog"
	"github.com/gobeaver/confkit/profile"
	"github.com/gobeaver/confkit/rules"
)

func scanCmd() *cobra.Command {
	var (
		pattern     string
		tags        []string
		profilePath string
		catalogPath string
		lenient     bool
		asJSON      bool
		watch       bool
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Classify configuration files under a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := confkit.GetConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			if pattern == "" {
				pattern = cfg.ScanGlob
			}
			if profilePath == "" {
				profilePath = cfg.ProfilePath
			}
			if catalogPath == "" {
				catalogPath = cfg.CatalogPath
			}
			if !cmd.Flags().Changed("lenient") {
				lenient = cfg.LenientCatalog
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}

			logger := newLogger(logLevel)
			det, err := buildDetector(cfg, catalogPath, lenient, logger)
			if err != nil {
				return err
			}
			if watch {
				if profilePath == "" {
					return fmt.Errorf("--watch requires --profiles")
				}
				return watchScan(det, args[0], pattern, tags, profilePath, asJSON, logger)
			}
			return runScan(det, args[0], pattern, tags, profilePath, asJSON)
		},
	}

	cmd.Flags().StringVar(&pattern, "glob", "", "Glob pattern for directory scans (default from CONFKIT_SCAN_GLOB)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Active tags for profile matching")
	cmd.Flags().StringVar(&profilePath, "profiles", "", "Profile document to annotate results with (JSON or YAML)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file overriding the built-in catalog")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Accept format identifiers the catalog does not know")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")
	cmd.Flags().BoolVar(&watch, "watch", false, "Rescan whenever the profile document changes")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return cmd
}

func buildDetector(cfg *confkit.Config, catalogPath string, lenient bool, logger *slog.Logger) (*confkit.Detector, error) {
	cat, err := loadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}

	reg := confkit.NewRegistry()
	if err := rules.RegisterBuiltin(reg); err != nil {
		return nil, fmt.Errorf("registering built-in rules: %w", err)
	}

	return confkit.NewDetector(reg, cat, confkit.DetectorConfig{
		SampleSize:   cfg.SampleSize,
		SampleBudget: cfg.SampleBudget,
		Lenient:      lenient,
		Logger:       logger,
		OnError: func(serr *confkit.ScanError) error {
			logger.Warn("skipping unreadable file", "path", serr.Path, "error", serr.Err)
			return nil
		},
	})
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Builtin(), nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return cat, nil
}

func runScan(det *confkit.Detector, root, pattern string, tags []string, profilePath string, asJSON bool) error {
	if profilePath != "" {
		store, err := profile.LoadFile(profilePath)
		if err != nil {
			return fmt.Errorf("loading profiles %s: %w", profilePath, err)
		}
		results, err := det.ScanWithProfiles(root, store, tags, pattern)
		if err != nil {
			return err
		}
		if asJSON {
			return emitJSON(results)
		}
		for _, res := range results {
			printMatch(res.RelativePath, res.Match)
			for _, ac := range res.Applied {
				fmt.Printf("    profile %s config %s\n", ac.Profile, ac.ConfigID)
			}
			if res.FormatDrift {
				fmt.Printf("    format drift\n")
			}
		}
		return budgetNote(det)
	}

	results, err := det.ScanPath(root, pattern, true)
	if err != nil {
		return err
	}
	if asJSON {
		return emitJSON(results)
	}
	for _, res := range results {
		printMatch(res.Path, res.Match)
	}
	return budgetNote(det)
}

// watchScan scans once, then rescans every time the profile document is
// rewritten, until interrupted. A document that fails to parse keeps the
// previous results on screen.
func watchScan(det *confkit.Detector, root, pattern string, tags []string, profilePath string, asJSON bool, logger *slog.Logger) error {
	rescan := func(store *profile.Store) {
		results, err := det.ScanWithProfiles(root, store, tags, pattern)
		if err != nil {
			logger.Error("scan failed", "path", root, "error", err)
			return
		}
		if asJSON {
			_ = emitJSON(results)
		} else {
			for _, res := range results {
				printMatch(res.RelativePath, res.Match)
			}
		}
		_ = budgetNote(det)
	}

	store, err := profile.LoadFile(profilePath)
	if err != nil {
		return fmt.Errorf("loading profiles %s: %w", profilePath, err)
	}
	rescan(store)

	watcher, err := profile.Watch(profilePath, logger, func(store *profile.Store, err error) {
		if err != nil {
			return
		}
		logger.Info("profiles reloaded", "path", profilePath)
		rescan(store)
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

func printMatch(path string, m *confkit.Match) {
	format := m.Format
	if m.Variant != "" {
		format += "/" + m.Variant
	}
	fmt.Printf("%-50s %-24s %.2f  %s\n", path, format, m.Confidence, strings.Join(m.Reasons, "; "))
}

func budgetNote(det *confkit.Detector) error {
	if det.BudgetExhausted() {
		fmt.Fprintf(os.Stderr, "sample budget exhausted after %d bytes; remaining files skipped\n", det.BytesConsumed())
	}
	return nil
}

func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
