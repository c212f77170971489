package confkit

import (
	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Per-file sample size in bytes (clamped to the 512 KiB ceiling)
	SampleSize int `env:"SAMPLE_SIZE,default:131072"`

	// Aggregate cross-scan sample budget in bytes
	SampleBudget int64 `env:"SAMPLE_BUDGET,default:16777216"`

	// Lenient catalog validation (accept unknown format identifiers)
	LenientCatalog bool `env:"LENIENT_CATALOG,default:false"`

	// Path to a YAML catalog file; empty selects the built-in catalog
	CatalogPath string `env:"CATALOG_PATH"`

	// Path to a profile document (JSON or YAML)
	ProfilePath string `env:"PROFILE_PATH"`

	// Default glob pattern for directory scans
	ScanGlob string `env:"SCAN_GLOB,default:**/*"`

	// Log level: debug, info, warn, error
	LogLevel string `env:"LOG_LEVEL,default:info"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: "CONFKIT_"}); err != nil {
		return nil, err
	}
	return cfg, nil
}
