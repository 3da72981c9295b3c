// Package registry stores the outcome of build executions in a SQLite
// database under the data directory. The serve command reads it to list
// builds on the project page; perform inserts one row per run.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/barrenmains/embed-report/pkg/errors"
)

// DBFileName is the registry database file under the data directory.
const DBFileName = "embed-report.db"

// Registry provides SQLite-backed storage for build records.
type Registry struct {
	db     *sql.DB
	dbPath string
}

// BuildRecord is one build execution of a project.
type BuildRecord struct {
	ID        string
	Project   string
	CreatedAt time.Time
	Success   bool
	Targets   []TargetRecord
}

// TargetRecord is the per-target outcome within a build.
type TargetRecord struct {
	Name     string
	Archived int
	Missing  int
}

// Open opens or creates the registry database at dir/embed-report.db,
// creating dir as needed.
func Open(dir string) (*Registry, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.StorageError(fmt.Sprintf("failed to create registry directory %s", dir), err)
	}
	dbPath := filepath.Join(dir, DBFileName)

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, errors.StorageError("failed to open registry database", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	r := &Registry{db: db, dbPath: dbPath}
	if err := r.init(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Registry) init() error {
	if _, err := r.db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return errors.StorageError("failed to enable WAL", err)
	}

	schema := `
CREATE TABLE IF NOT EXISTS builds (
	id         TEXT PRIMARY KEY,
	project    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	success    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_builds_project ON builds(project, created_at);
CREATE TABLE IF NOT EXISTS build_targets (
	build_id TEXT NOT NULL REFERENCES builds(id),
	name     TEXT NOT NULL,
	archived INTEGER NOT NULL,
	missing  INTEGER NOT NULL,
	PRIMARY KEY (build_id, name)
);`
	if _, err := r.db.Exec(schema); err != nil {
		return errors.StorageError("failed to create registry schema", err)
	}
	return nil
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Registry) Path() string {
	return r.dbPath
}

// RecordBuild inserts a build and its per-target outcomes in one
// transaction. Re-recording the same build ID replaces the prior row,
// which keeps a re-run of the same build idempotent.
func (r *Registry) RecordBuild(ctx context.Context, rec BuildRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.StorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO builds (id, project, created_at, success) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Project, rec.CreatedAt.Unix(), boolToInt(rec.Success))
	if err != nil {
		return errors.StorageError("failed to insert build", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM build_targets WHERE build_id = ?`, rec.ID); err != nil {
		return errors.StorageError("failed to clear build targets", err)
	}
	for _, t := range rec.Targets {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO build_targets (build_id, name, archived, missing) VALUES (?, ?, ?, ?)`,
			rec.ID, t.Name, t.Archived, t.Missing)
		if err != nil {
			return errors.StorageError(fmt.Sprintf("failed to insert target %s", t.Name), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.StorageError("failed to commit build record", err)
	}
	return nil
}

// Builds returns the most recent builds of a project, newest first,
// including their per-target outcomes.
func (r *Registry) Builds(ctx context.Context, project string, limit int) ([]BuildRecord, error) {
	if limit <= 0 {
		limit = 25
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project, created_at, success FROM builds WHERE project = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		project, limit)
	if err != nil {
		return nil, errors.StorageError("failed to query builds", err)
	}
	defer rows.Close()

	var builds []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var createdAt int64
		var success int
		if err := rows.Scan(&rec.ID, &rec.Project, &createdAt, &success); err != nil {
			return nil, errors.StorageError("failed to scan build row", err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		rec.Success = success != 0
		builds = append(builds, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageError("failed to iterate build rows", err)
	}

	for i := range builds {
		targets, err := r.buildTargets(ctx, builds[i].ID)
		if err != nil {
			return nil, err
		}
		builds[i].Targets = targets
	}
	return builds, nil
}

// Build returns a single build record, or sql.ErrNoRows wrapped in a
// storage error when the build is unknown.
func (r *Registry) Build(ctx context.Context, id string) (BuildRecord, error) {
	var rec BuildRecord
	var createdAt int64
	var success int
	err := r.db.QueryRowContext(ctx,
		`SELECT id, project, created_at, success FROM builds WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Project, &createdAt, &success)
	if err != nil {
		return BuildRecord{}, errors.StorageError(fmt.Sprintf("failed to load build %s", id), err)
	}
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	rec.Success = success != 0

	targets, err := r.buildTargets(ctx, id)
	if err != nil {
		return BuildRecord{}, err
	}
	rec.Targets = targets
	return rec, nil
}

func (r *Registry) buildTargets(ctx context.Context, buildID string) ([]TargetRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, archived, missing FROM build_targets WHERE build_id = ? ORDER BY name`, buildID)
	if err != nil {
		return nil, errors.StorageError("failed to query build targets", err)
	}
	defer rows.Close()

	var targets []TargetRecord
	for rows.Next() {
		var t TargetRecord
		if err := rows.Scan(&t.Name, &t.Archived, &t.Missing); err != nil {
			return nil, errors.StorageError("failed to scan target row", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
