// Package mapdb persists CellMap snapshots in a SQLite database.
//
// Each snapshot row stores the map's shape and parameters alongside a
// gzip-compressed mapfile JSON document, so a map can be rebuilt without the
// database schema knowing anything about layer types or cell values.
package mapdb

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/gridmap/internal/logutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrSnapshotNotFound is returned by GetSnapshot when no row matches.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// DB is a snapshot store backed by a single SQLite database.
type DB struct {
	*sql.DB
}

// Snapshot is one stored map capture.
type Snapshot struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TakenUnixNanos int64  `json:"taken_unix_nanos"`
	GridRows       int    `json:"grid_rows"`
	GridCols       int    `json:"grid_cols"`
	LayerCount     int    `json:"layer_count"`
	ParamsJSON     string `json:"params_json"`
	GridBlob       []byte `json:"-"`
	Reason         string `json:"reason"`
}

// Open opens (creating if needed) the SQLite database at path and applies
// any pending schema migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store %s: %w", path, err)
	}
	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

func applyMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	// Closing m would close the underlying DB connection; leave it to the GC.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying snapshot store migrations: %w", err)
	}
	return nil
}

// InsertSnapshot stores a snapshot row. A missing ID is assigned a fresh
// uuid; a zero timestamp is set to now. The stored ID is returned.
func (db *DB) InsertSnapshot(s *Snapshot) (string, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.TakenUnixNanos == 0 {
		s.TakenUnixNanos = time.Now().UnixNano()
	}

	query := `
		INSERT INTO map_snapshots (id, name, taken_unix_nanos, grid_rows, grid_cols, layer_count, params_json, grid_blob, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query, s.ID, s.Name, s.TakenUnixNanos, s.GridRows, s.GridCols,
		s.LayerCount, s.ParamsJSON, s.GridBlob, s.Reason)
	if err != nil {
		return "", fmt.Errorf("inserting snapshot %s: %w", s.ID, err)
	}

	logutil.Logf("[mapdb] stored snapshot id=%s name=%s shape=%dx%d layers=%d blob=%d bytes reason=%s",
		s.ID, s.Name, s.GridRows, s.GridCols, s.LayerCount, len(s.GridBlob), s.Reason)
	return s.ID, nil
}

// GetSnapshot fetches one snapshot by ID.
func (db *DB) GetSnapshot(id string) (*Snapshot, error) {
	query := `
		SELECT id, name, taken_unix_nanos, grid_rows, grid_cols, layer_count, params_json, grid_blob, reason
		FROM map_snapshots
		WHERE id = ?
	`
	var s Snapshot
	err := db.QueryRow(query, id).Scan(&s.ID, &s.Name, &s.TakenUnixNanos, &s.GridRows,
		&s.GridCols, &s.LayerCount, &s.ParamsJSON, &s.GridBlob, &s.Reason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot %s: %w", id, err)
	}
	return &s, nil
}

// ListSnapshots returns snapshots for the given map name, newest first,
// without their blobs. A limit <= 0 means no limit.
func (db *DB) ListSnapshots(name string, limit int) ([]*Snapshot, error) {
	query := `
		SELECT id, name, taken_unix_nanos, grid_rows, grid_cols, layer_count, params_json, reason
		FROM map_snapshots
		WHERE name = ?
		ORDER BY taken_unix_nanos DESC
	`
	args := []interface{}{name}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots for %s: %w", name, err)
	}
	defer rows.Close()

	var snaps []*Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.Name, &s.TakenUnixNanos, &s.GridRows, &s.GridCols,
			&s.LayerCount, &s.ParamsJSON, &s.Reason); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		snaps = append(snaps, &s)
	}
	return snaps, rows.Err()
}

// DeleteSnapshot removes one snapshot by ID.
func (db *DB) DeleteSnapshot(id string) error {
	res, err := db.Exec("DELETE FROM map_snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("snapshot %s: %w", id, ErrSnapshotNotFound)
	}
	return nil
}

// compressBlob gzips a JSON document for storage.
func compressBlob(doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(doc); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decompressBlob reverses compressBlob.
func decompressBlob(blob []byte) ([]byte, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty snapshot blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot blob: %w", err)
	}
	defer gz.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(gz); err != nil {
		return nil, fmt.Errorf("decompressing snapshot blob: %w", err)
	}
	return buf.Bytes(), nil
}

func marshalParams(params interface{}) (string, error) {
	b, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot params: %w", err)
	}
	return string(b), nil
}
