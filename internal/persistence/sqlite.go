// File: internal/persistence/sqlite.go
// Project: UNIVERSE
// Description: Default embedded persistence backend, grounded on
//              sargonas-stellar-lab's and Vitadek-OwnWorld's use of
//              github.com/mattn/go-sqlite3 via database/sql.
package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JoshuaAFerguson/universe/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sectors (
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	z INTEGER NOT NULL,
	generated_tick INTEGER NOT NULL,
	PRIMARY KEY (x, y, z)
);
CREATE TABLE IF NOT EXISTS systems (
	id       TEXT PRIMARY KEY,
	sector_x INTEGER NOT NULL,
	sector_y INTEGER NOT NULL,
	sector_z INTEGER NOT NULL,
	data     BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_systems_sector ON systems(sector_x, sector_y, sector_z);
CREATE TABLE IF NOT EXISTS probes (
	id         TEXT PRIMARY KEY,
	parent_id  TEXT NOT NULL,
	generation INTEGER NOT NULL,
	data       BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	tick        INTEGER NOT NULL,
	type        TEXT NOT NULL,
	probe_id    TEXT NOT NULL,
	system_id   TEXT NOT NULL,
	description TEXT NOT NULL,
	severity    REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id            TEXT PRIMARY KEY,
	sender_id     TEXT NOT NULL,
	target_id     TEXT NOT NULL,
	text          TEXT NOT NULL,
	sent_tick     INTEGER NOT NULL,
	arrival_tick  INTEGER NOT NULL,
	status        TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS structures (
	id        TEXT PRIMARY KEY,
	type      TEXT NOT NULL,
	system_id TEXT NOT NULL,
	complete  INTEGER NOT NULL,
	ticks_done REAL NOT NULL
);
`

// SQLiteStore is the default embedded persistence backend.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if absent) a SQLite database at path and
// ensures the schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("persistence: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // the engine is single-threaded; avoid sqlite lock contention

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("persistence: create schema: %w", err)
	}

	log.Info("sqlite store opened: path=%s", path)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	log.Info("closing sqlite store")
	return s.db.Close()
}

func (s *SQLiteStore) SaveMeta(ctx context.Context, m Meta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("persistence: begin save meta: %w", err)
	}
	defer tx.Rollback()

	rows := map[string]string{
		"seed":               fmt.Sprintf("%d", m.Seed),
		"tick":               fmt.Sprintf("%d", m.Tick),
		"generation_version": fmt.Sprintf("%d", m.GenerationVersion),
	}
	for k, v := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meta(key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			k, v); err != nil {
			return fmt.Errorf("persistence: save meta %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadMeta(ctx context.Context) (Meta, bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return Meta{}, false, fmt.Errorf("persistence: load meta: %w", err)
	}
	defer rows.Close()

	found := false
	var m Meta
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Meta{}, false, err
		}
		found = true
		switch k {
		case "seed":
			fmt.Sscanf(v, "%d", &m.Seed)
		case "tick":
			fmt.Sscanf(v, "%d", &m.Tick)
		case "generation_version":
			fmt.Sscanf(v, "%d", &m.GenerationVersion)
		}
	}
	return m, found, rows.Err()
}

func (s *SQLiteStore) SaveSector(ctx context.Context, coord models.Sector, generatedTick int64, systems []models.System) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("persistence: begin save sector: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sectors(x, y, z, generated_tick) VALUES (?, ?, ?, ?)
		 ON CONFLICT(x, y, z) DO UPDATE SET generated_tick = excluded.generated_tick`,
		coord.X, coord.Y, coord.Z, generatedTick); err != nil {
		return fmt.Errorf("persistence: save sector row: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM systems WHERE sector_x = ? AND sector_y = ? AND sector_z = ?`,
		coord.X, coord.Y, coord.Z); err != nil {
		return fmt.Errorf("persistence: clear old systems: %w", err)
	}

	for _, sys := range systems {
		blob, err := packBlob(encodeSystem(sys))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO systems(id, sector_x, sector_y, sector_z, data) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
			sys.ID.Hex(), coord.X, coord.Y, coord.Z, blob); err != nil {
			return fmt.Errorf("persistence: save system %s: %w", sys.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) SectorExists(ctx context.Context, coord models.Sector) (int, bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM systems WHERE sector_x = ? AND sector_y = ? AND sector_z = ?`,
		coord.X, coord.Y, coord.Z).Scan(&count)
	if err != nil {
		return 0, false, fmt.Errorf("persistence: sector_exists: %w", err)
	}

	var generated int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sectors WHERE x = ? AND y = ? AND z = ?`,
		coord.X, coord.Y, coord.Z).Scan(&generated)
	if err != nil {
		return 0, false, fmt.Errorf("persistence: sector_exists row: %w", err)
	}
	if generated == 0 {
		return 0, false, nil
	}
	return count, true, nil
}

func (s *SQLiteStore) LoadSector(ctx context.Context, coord models.Sector) ([]models.System, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM systems WHERE sector_x = ? AND sector_y = ? AND sector_z = ?`,
		coord.X, coord.Y, coord.Z)
	if err != nil {
		return nil, fmt.Errorf("persistence: load sector: %w", err)
	}
	defer rows.Close()

	var systems []models.System
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		raw, err := unpackBlob(blob)
		if err != nil {
			return nil, err
		}
		sys, err := decodeSystem(raw)
		if err != nil {
			return nil, fmt.Errorf("persistence: decode system: %w", err)
		}
		systems = append(systems, sys)
	}
	return systems, rows.Err()
}

func (s *SQLiteStore) SaveProbe(ctx context.Context, p *models.Probe) error {
	blob, err := packBlob(encodeProbe(p))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO probes(id, parent_id, generation, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET parent_id = excluded.parent_id, generation = excluded.generation, data = excluded.data`,
		p.ID.Hex(), p.ParentID.Hex(), p.Generation, blob)
	if err != nil {
		return fmt.Errorf("persistence: save probe %s: %w", p.ID, err)
	}
	return nil
}

func (s *SQLiteStore) LoadProbe(ctx context.Context, id models.UID) (*models.Probe, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM probes WHERE id = ?`, id.Hex()).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("persistence: probe %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("persistence: load probe %s: %w", id, err)
	}

	raw, err := unpackBlob(blob)
	if err != nil {
		return nil, err
	}
	p, err := decodeProbe(raw)
	if err != nil {
		return nil, fmt.Errorf("persistence: decode probe: %w", err)
	}
	return p, nil
}
