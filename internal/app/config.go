package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestafacil/avaluador/internal/logging"
	"github.com/prestafacil/avaluador/internal/market"
	"github.com/prestafacil/avaluador/internal/policy"
	"github.com/prestafacil/avaluador/internal/predictor"
	"github.com/prestafacil/avaluador/internal/vision"
)

// Config aggregates the per-package configuration into one startup document.
// Defaults are complete: a zero-effort boot appraises with the traditional
// estimator, keyword image heuristics and the stock market rules.
type Config struct {
	Logging   logging.Config
	Policy    policy.Config
	Predictor predictor.Config
	Market    market.Rules
	Vision    vision.Config

	// ListenAddr is the HTTP listen address for the API server (the CLI
	// appraises in-process and does not require the network).
	ListenAddr string

	// StorageRoot is the directory holding the artifact registry database.
	StorageRoot string

	// DBPath overrides the registry database location. Empty means
	// StorageRoot/modelos.db.
	DBPath string

	// ArtifactPath names a model artifact JSON imported and activated at
	// boot. Empty skips the import.
	ArtifactPath string

	// JobRetentionTime is how long finished appraisal jobs stay queryable.
	// Zero disables pruning.
	JobRetentionTime time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging:          logging.DefaultConfig(),
		Policy:           policy.DefaultConfig(),
		Predictor:        predictor.DefaultConfig(),
		Market:           market.DefaultRules(),
		Vision:           vision.DefaultConfig(),
		ListenAddr:       ":8080",
		StorageRoot:      "~/.config/avaluador",
		JobRetentionTime: 30 * time.Minute,
	}
}

// FromEnv builds a Config from defaults overridden by AVALUADOR_* environment
// variables. Callers load .env files beforehand (cmd/avaluador does). Known
// variables: AVALUADOR_ADDR, AVALUADOR_STORAGE_ROOT, AVALUADOR_DB,
// AVALUADOR_ARTIFACT, AVALUADOR_LOG_LEVEL, AVALUADOR_LOG_JSON,
// AVALUADOR_FACTOR_COMPRAVENTA, AVALUADOR_MIN_PRESTAMO,
// AVALUADOR_JOB_RETENTION, AVALUADOR_GEMINI_MODEL and GEMINI_API_KEY
// (AVALUADOR_GEMINI_API_KEY wins when both are set).
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("AVALUADOR_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("AVALUADOR_STORAGE_ROOT"); v != "" {
		cfg.StorageRoot = v
	}
	if v := os.Getenv("AVALUADOR_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("AVALUADOR_ARTIFACT"); v != "" {
		cfg.ArtifactPath = v
	}
	if v := os.Getenv("AVALUADOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("AVALUADOR_LOG_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("AVALUADOR_LOG_JSON: %w", err)
		}
		cfg.Logging.JSON = b
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Vision.APIKey = v
	}
	if v := os.Getenv("AVALUADOR_GEMINI_API_KEY"); v != "" {
		cfg.Vision.APIKey = v
	}
	if v := os.Getenv("AVALUADOR_GEMINI_MODEL"); v != "" {
		cfg.Vision.Model = v
	}
	if v := os.Getenv("AVALUADOR_FACTOR_COMPRAVENTA"); v != "" {
		f, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("AVALUADOR_FACTOR_COMPRAVENTA: %w", err)
		}
		cfg.Market.FactorCompraventa = f
	}
	if v := os.Getenv("AVALUADOR_MIN_PRESTAMO"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("AVALUADOR_MIN_PRESTAMO: %w", err)
		}
		cfg.Market.MinPrestamo = decimal.NewFromInt(n)
	}
	if v := os.Getenv("AVALUADOR_JOB_RETENTION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("AVALUADOR_JOB_RETENTION: %w", err)
		}
		cfg.JobRetentionTime = d
	}

	return cfg, nil
}

// RegistryDBPath resolves the sqlite file the registry opens, expanding a
// leading "~" against the user home directory.
func (c *Config) RegistryDBPath() (string, error) {
	if c.DBPath != "" {
		return expandPath(c.DBPath)
	}
	root, err := expandPath(c.StorageRoot)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "modelos.db"), nil
}

func expandPath(p string) (string, error) {
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[1:]), nil
	}
	return p, nil
}
