// Package app wires the appraisal pipeline into a runnable application:
// registry-backed model selection, policy evaluation, market adjustment and
// optional image analysis, plus asynchronous appraisal jobs for transports
// that want progress events.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/prestafacil/avaluador/internal/device"
	"github.com/prestafacil/avaluador/internal/engine"
	"github.com/prestafacil/avaluador/internal/interfaces"
	"github.com/prestafacil/avaluador/internal/logging"
	"github.com/prestafacil/avaluador/internal/model"
	"github.com/prestafacil/avaluador/internal/policy"
	"github.com/prestafacil/avaluador/internal/predictor"
	"github.com/prestafacil/avaluador/internal/registry"
	"github.com/prestafacil/avaluador/internal/vision"
)

// Application is the composition root. It owns the registry database handle
// and every long-lived component built from Config. Construct with
// NewApplication and release with Close.
type Application struct {
	Config *Config
	Logger interfaces.Logger

	DB       *sql.DB
	Registry *registry.Registry
	Engine   *engine.Engine
	Vision   vision.Provider
	Orch     *Orchestrator

	// ModelVersion names the price model chosen at boot, either the active
	// artifact version or the traditional estimator.
	ModelVersion string
}

// NewApplication opens the registry, selects the price model and assembles
// the appraisal engine. When no trained artifact is active the traditional
// estimator takes over; the choice is logged either way and recorded in
// ModelVersion.
func NewApplication(ctx context.Context, cfg *Config, logger interfaces.Logger) (a *Application, err error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.New(cfg.Logging)
	}

	dbPath, err := cfg.RegistryDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolving registry path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening registry database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	reg, err := registry.NewRegistry(db, logger)
	if err != nil {
		return nil, fmt.Errorf("creating registry: %w", err)
	}

	if cfg.ArtifactPath != "" {
		entry, ierr := reg.ImportFile(ctx, cfg.ArtifactPath, true)
		if ierr != nil {
			return nil, fmt.Errorf("importing artifact %s: %w", cfg.ArtifactPath, ierr)
		}
		logger.Info("model artifact imported",
			interfaces.Field{Key: "path", Value: cfg.ArtifactPath},
			interfaces.Field{Key: "version", Value: entry.Version})
	}

	pricer, version, err := selectModel(ctx, cfg, reg, logger)
	if err != nil {
		return nil, err
	}

	eval, err := policy.New(cfg.Policy)
	if err != nil {
		return nil, fmt.Errorf("building policy evaluator: %w", err)
	}

	eng, err := engine.New(eval, pricer, cfg.Market, logger)
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}

	provider, err := selectVision(cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &Application{
		Config:       cfg,
		Logger:       logger,
		DB:           db,
		Registry:     reg,
		Engine:       eng,
		Vision:       provider,
		ModelVersion: version,
	}
	app.Orch = NewOrchestrator(cfg, eng, provider, reg, logger)
	return app, nil
}

// selectModel loads the active artifact, falling back to the traditional
// estimator when none is active. Any other registry failure aborts boot
// rather than silently appraising with the wrong model.
func selectModel(ctx context.Context, cfg *Config, reg *registry.Registry, logger interfaces.Logger) (predictor.PricePredictor, string, error) {
	artifact, entry, err := reg.Active(ctx)
	switch {
	case err == nil:
		lin, lerr := model.NewLinear(artifact)
		if lerr != nil {
			return nil, "", fmt.Errorf("loading active model %s: %w", entry.Version, lerr)
		}
		logger.Info("using trained price model",
			interfaces.Field{Key: "version", Value: entry.Version},
			interfaces.Field{Key: "algorithm", Value: entry.Algorithm},
			interfaces.Field{Key: "r2", Value: entry.R2})
		return predictor.NewAdapter(lin, logger), entry.Version, nil

	case errors.Is(err, registry.ErrNoActiveArtifact):
		trad, terr := predictor.NewTraditional(cfg.Predictor, logger)
		if terr != nil {
			return nil, "", fmt.Errorf("building traditional estimator: %w", terr)
		}
		logger.Info("no trained model active, using traditional estimator",
			interfaces.Field{Key: "version", Value: predictor.TraditionalVersion})
		return trad, predictor.TraditionalVersion, nil

	default:
		return nil, "", fmt.Errorf("loading active model: %w", err)
	}
}

// selectVision returns the Gemini provider when an API key is configured,
// otherwise the keyword heuristics that never leave the process.
func selectVision(cfg *Config, logger interfaces.Logger) (vision.Provider, error) {
	if cfg.Vision.APIKey != "" {
		g, err := vision.NewGemini(cfg.Vision, logger)
		if err != nil {
			return nil, fmt.Errorf("building gemini provider: %w", err)
		}
		logger.Info("image analysis ready",
			interfaces.Field{Key: "provider", Value: vision.ProviderGemini},
			interfaces.Field{Key: "model", Value: cfg.Vision.Model})
		return g, nil
	}

	logger.Info("image analysis ready",
		interfaces.Field{Key: "provider", Value: vision.ProviderHeuristic})
	return vision.NewHeuristic(logger), nil
}

// Appraise runs one synchronous appraisal without images.
func (a *Application) Appraise(ctx context.Context, raw device.RawSpecification) (*engine.Result, error) {
	return a.Orch.AppraiseDevice(ctx, raw, nil, "")
}

// Close stops the orchestrator and releases the registry database.
func (a *Application) Close() error {
	if a == nil {
		return nil
	}
	if a.Orch != nil {
		a.Orch.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
