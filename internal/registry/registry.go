// Package registry persists trained pricing model artifacts in SQLite, so
// the active model survives restarts and every valuation can be traced back
// to the exact artifact version that produced it.
package registry

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prestafacil/avaluador/internal/interfaces"
	"github.com/prestafacil/avaluador/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	ErrArtifactNotFound = errors.New("model artifact not found")
	ErrNoActiveArtifact = errors.New("no active model artifact")
	ErrVersionExists    = errors.New("model artifact version already registered")
)

// Entry is one stored artifact row, without the payload.
type Entry struct {
	ID        string  `json:"id"`
	Version   string  `json:"version"`
	Algorithm string  `json:"algoritmo"`
	R2        float64 `json:"r2"`
	TrainedAt int64   `json:"entrenado_en"`
	CreatedAt int64   `json:"registrado_en"`
	Active    bool    `json:"activo"`
}

// Registry manages model artifacts in SQLite.
type Registry struct {
	db     *sql.DB
	logger interfaces.Logger
}

// NewRegistry runs the schema migration and returns a Registry. db should be
// the SQLite DB the application owns; a nil logger is replaced with a no-op
// one.
func NewRegistry(db *sql.DB, logger interfaces.Logger) (*Registry, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return &Registry{db: db, logger: logger}, nil
}

// Register stores a validated artifact. The payload keeps the full original
// JSON form so Active can rebuild the identical artifact later. With
// activate set, the active flag moves to the new row in the same
// transaction.
func (r *Registry) Register(ctx context.Context, artifact *model.Artifact, activate bool) (*Entry, error) {
	if artifact == nil {
		return nil, fmt.Errorf("artifact is nil")
	}
	if err := artifact.Validate(); err != nil {
		return nil, fmt.Errorf("artifact rejected: %w", err)
	}

	payload, err := json.Marshal(artifact)
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	features, err := json.Marshal(artifact.FeatureNames)
	if err != nil {
		return nil, fmt.Errorf("encode feature names: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().Unix()
	var trainedAt int64
	if !artifact.TrainedAt.IsZero() {
		trainedAt = artifact.TrainedAt.Unix()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if activate {
		if _, err := tx.ExecContext(ctx,
			`UPDATE model_artifacts SET active = 0 WHERE active = 1`); err != nil {
			return nil, fmt.Errorf("deactivate previous artifact: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO model_artifacts
             (id, version, algorithm, features_json, payload_json, r2, trained_at, created_at, active)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, artifact.Version, artifact.Algorithm, string(features), string(payload),
		artifact.R2, trainedAt, now, boolToInt(activate),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrVersionExists
		}
		return nil, fmt.Errorf("insert artifact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	r.logger.Info("model artifact registered",
		interfaces.Field{Key: "version", Value: artifact.Version},
		interfaces.Field{Key: "algoritmo", Value: artifact.Algorithm},
		interfaces.Field{Key: "activo", Value: activate},
	)

	return &Entry{
		ID:        id,
		Version:   artifact.Version,
		Algorithm: artifact.Algorithm,
		R2:        artifact.R2,
		TrainedAt: trainedAt,
		CreatedAt: now,
		Active:    activate,
	}, nil
}

// Activate moves the active flag to the artifact with the given version.
func (r *Registry) Activate(ctx context.Context, version string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM model_artifacts WHERE version = ? LIMIT 1`, version).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrArtifactNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE model_artifacts SET active = 0 WHERE active = 1`); err != nil {
		return fmt.Errorf("deactivate previous artifact: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE model_artifacts SET active = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("activate artifact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.logger.Info("model artifact activated",
		interfaces.Field{Key: "version", Value: version})
	return nil
}

// Active rebuilds the active artifact from its stored payload.
func (r *Registry) Active(ctx context.Context) (*model.Artifact, *Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, version, algorithm, payload_json, r2, trained_at, created_at
         FROM model_artifacts
         WHERE active = 1
         LIMIT 1`)

	var entry Entry
	var payload string
	if err := row.Scan(&entry.ID, &entry.Version, &entry.Algorithm, &payload,
		&entry.R2, &entry.TrainedAt, &entry.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrNoActiveArtifact
		}
		return nil, nil, err
	}
	entry.Active = true

	artifact, err := model.ParseArtifact([]byte(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("stored artifact %s is corrupt: %w", entry.Version, err)
	}
	return artifact, &entry, nil
}

// List returns all registered artifacts, newest first.
func (r *Registry) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, version, algorithm, r2, trained_at, created_at, active
         FROM model_artifacts
         ORDER BY created_at DESC, version DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var active int
		if err := rows.Scan(&e.ID, &e.Version, &e.Algorithm, &e.R2,
			&e.TrainedAt, &e.CreatedAt, &active); err != nil {
			return nil, err
		}
		e.Active = active != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns one artifact by version, payload included.
func (r *Registry) Get(ctx context.Context, version string) (*model.Artifact, *Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, version, algorithm, payload_json, r2, trained_at, created_at, active
         FROM model_artifacts
         WHERE version = ?
         LIMIT 1`, version)

	var entry Entry
	var payload string
	var active int
	if err := row.Scan(&entry.ID, &entry.Version, &entry.Algorithm, &payload,
		&entry.R2, &entry.TrainedAt, &entry.CreatedAt, &active); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrArtifactNotFound
		}
		return nil, nil, err
	}
	entry.Active = active != 0

	artifact, err := model.ParseArtifact([]byte(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("stored artifact %s is corrupt: %w", entry.Version, err)
	}
	return artifact, &entry, nil
}

// ImportFile reads an artifact JSON from disk and registers it. Importing a
// version that is already stored is not an error: the stored entry is kept
// and activated when requested, so repeating the same boot flag is harmless.
func (r *Registry) ImportFile(ctx context.Context, path string, activate bool) (*Entry, error) {
	artifact, err := model.LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	entry, err := r.Register(ctx, artifact, activate)
	if errors.Is(err, ErrVersionExists) {
		if activate {
			if err := r.Activate(ctx, artifact.Version); err != nil {
				return nil, err
			}
		}
		_, entry, err = r.Get(ctx, artifact.Version)
		return entry, err
	}
	return entry, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
