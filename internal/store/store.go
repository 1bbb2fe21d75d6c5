// Package store provides durable SQLite-backed storage for personas and
// their generated artifacts.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"personagen/internal/types"
)

// Store wraps the SQLite database holding personas and artifacts.
// A single pooled connection serializes writers; each logical operation
// runs in its own statement scope, so operations are individually atomic
// but not coordinated with each other.
type Store struct {
	db     *sql.DB
	dbPath string
	log    *zap.Logger
}

// Open initializes the database at the given path, creating the schema
// when absent. The parent directory is created if needed.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debug("failed to set sqlite busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debug("failed to set sqlite journal_mode=WAL", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		log.Debug("failed to set sqlite synchronous=NORMAL", zap.Error(err))
	}

	s := &Store{db: db, dbPath: path, log: log}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug("store initialized", zap.String("path", path))
	return s, nil
}

func (s *Store) initialize() error {
	artifactsTable := `
	CREATE TABLE IF NOT EXISTS artifacts (
		id TEXT PRIMARY KEY,
		persona_slug TEXT NOT NULL,
		category TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		file_extension TEXT,
		created_at TEXT,
		modified_at TEXT,
		metadata TEXT,
		FOREIGN KEY (persona_slug) REFERENCES personas(slug)
	);
	CREATE INDEX IF NOT EXISTS idx_artifacts_persona_slug ON artifacts(persona_slug);
	CREATE INDEX IF NOT EXISTS idx_artifacts_category ON artifacts(category);
	CREATE INDEX IF NOT EXISTS idx_artifacts_created_at ON artifacts(created_at);
	`

	personasTable := `
	CREATE TABLE IF NOT EXISTS personas (
		slug TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		role TEXT,
		company TEXT,
		location TEXT,
		created_at TEXT,
		data TEXT
	);
	`

	for _, table := range []string{artifactsTable, personasTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// InsertArtifact stores a single artifact. A failure (for example a
// duplicate id) is reported as false, never propagated.
func (s *Store) InsertArtifact(a types.Artifact) bool {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		s.log.Warn("artifact metadata not serializable", zap.String("id", a.ID), zap.Error(err))
		return false
	}

	_, err = s.db.Exec(`
		INSERT INTO artifacts
		(id, persona_slug, category, title, content, file_extension, created_at, modified_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.PersonaSlug,
		a.Category,
		a.Title,
		a.Content,
		a.FileExtension,
		a.CreatedAt.UTC().Format(time.RFC3339Nano),
		a.ModifiedAt.UTC().Format(time.RFC3339Nano),
		string(metadata),
	)
	if err != nil {
		s.log.Warn("artifact insert failed", zap.String("id", a.ID), zap.Error(err))
		return false
	}
	return true
}

// InsertArtifactsBatch inserts each artifact independently and returns
// the number that succeeded. One item's failure does not abort the
// batch.
func (s *Store) InsertArtifactsBatch(artifacts []types.Artifact) int {
	count := 0
	for _, a := range artifacts {
		if s.InsertArtifact(a) {
			count++
		}
	}
	return count
}

// GetArtifactsByPersona returns all artifacts owned by the persona,
// most recent first.
func (s *Store) GetArtifactsByPersona(slug string) ([]types.Artifact, error) {
	rows, err := s.db.Query(`
		SELECT id, persona_slug, category, title, content, file_extension, created_at, modified_at, metadata
		FROM artifacts
		WHERE persona_slug = ?
		ORDER BY created_at DESC`, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []types.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// ListPersonaSlugs returns the distinct artifact owners in ascending
// order. Derived from artifacts, not the personas table, so it reflects
// what was actually generated.
func (s *Store) ListPersonaSlugs() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT persona_slug FROM artifacts ORDER BY persona_slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to query persona slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan slug: %w", err)
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

// SavePersona stores or replaces a persona record.
func (s *Store) SavePersona(p types.PersonaContext) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize persona: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO personas
		(slug, name, description, role, company, location, created_at, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Name, p.Description, p.Role, p.Company, p.Location,
		time.Now().UTC().Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save persona: %w", err)
	}
	return nil
}

// GetPersona loads a persona by slug. Returns nil when absent.
func (s *Store) GetPersona(slug string) (*types.PersonaContext, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM personas WHERE slug = ?`, slug).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load persona: %w", err)
	}
	var p types.PersonaContext
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to decode persona: %w", err)
	}
	return &p, nil
}

// Clear wipes both record kinds. Test and reset contexts only.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM artifacts`); err != nil {
		return fmt.Errorf("failed to clear artifacts: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM personas`); err != nil {
		return fmt.Errorf("failed to clear personas: %w", err)
	}
	return nil
}

func scanArtifact(rows *sql.Rows) (types.Artifact, error) {
	var (
		a                    types.Artifact
		createdAt, modifiedAt string
		metadata             sql.NullString
	)
	if err := rows.Scan(&a.ID, &a.PersonaSlug, &a.Category, &a.Title, &a.Content,
		&a.FileExtension, &createdAt, &modifiedAt, &metadata); err != nil {
		return types.Artifact{}, fmt.Errorf("failed to scan artifact: %w", err)
	}

	var err error
	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return types.Artifact{}, fmt.Errorf("bad created_at for artifact %s: %w", a.ID, err)
	}
	if a.ModifiedAt, err = time.Parse(time.RFC3339Nano, modifiedAt); err != nil {
		return types.Artifact{}, fmt.Errorf("bad modified_at for artifact %s: %w", a.ID, err)
	}

	a.Metadata = map[string]any{}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &a.Metadata); err != nil {
			return types.Artifact{}, fmt.Errorf("bad metadata for artifact %s: %w", a.ID, err)
		}
	}
	return a, nil
}
