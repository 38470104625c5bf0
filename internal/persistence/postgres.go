// File: internal/persistence/postgres.go
// Project: UNIVERSE
// Description: Opt-in PostgreSQL persistence backend, grounded on
//              internal/database/connection.go's pool management, retry
//              logic, and error recording, now talking through pgx/v5
//              instead of the teacher's pgx/v5/stdlib database/sql shim.
package persistence

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/JoshuaAFerguson/universe/internal/errors"
	"github.com/JoshuaAFerguson/universe/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func isNoRows(err error) bool {
	return stderrors.Is(err, pgx.ErrNoRows)
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sectors (
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	z INTEGER NOT NULL,
	generated_tick BIGINT NOT NULL,
	PRIMARY KEY (x, y, z)
);
CREATE TABLE IF NOT EXISTS systems (
	id       TEXT PRIMARY KEY,
	sector_x INTEGER NOT NULL,
	sector_y INTEGER NOT NULL,
	sector_z INTEGER NOT NULL,
	data     BYTEA NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_systems_sector ON systems(sector_x, sector_y, sector_z);
CREATE TABLE IF NOT EXISTS probes (
	id         TEXT PRIMARY KEY,
	parent_id  TEXT NOT NULL,
	generation INTEGER NOT NULL,
	data       BYTEA NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	tick        BIGINT NOT NULL,
	type        TEXT NOT NULL,
	probe_id    TEXT NOT NULL,
	system_id   TEXT NOT NULL,
	description TEXT NOT NULL,
	severity    DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id           TEXT PRIMARY KEY,
	sender_id    TEXT NOT NULL,
	target_id    TEXT NOT NULL,
	text         TEXT NOT NULL,
	sent_tick    BIGINT NOT NULL,
	arrival_tick BIGINT NOT NULL,
	status       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS structures (
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	system_id  TEXT NOT NULL,
	complete   BOOLEAN NOT NULL,
	ticks_done DOUBLE PRECISION NOT NULL
);
`

// PGConfig holds PostgreSQL connection parameters, overridable through the
// environment the same way internal/config.Engine is.
type PGConfig struct {
	// RawDSN, when non-empty, is used verbatim instead of assembling a DSN
	// from the fields below — it's how config.Engine.DBDSN (-dsn /
	// UNIVERSE_DB_DSN) reaches postgres, the same flag that already selects
	// the sqlite file path.
	RawDSN string

	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DefaultPGConfig returns connection defaults, overridden by DB_HOST,
// DB_PORT, DB_USER, DB_PASSWORD, DB_NAME and DB_SSLMODE when present.
func DefaultPGConfig() *PGConfig {
	cfg := &PGConfig{
		Host:            getEnvStr("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnvStr("DB_USER", "universe"),
		Password:        getEnvStr("DB_PASSWORD", ""),
		Database:        getEnvStr("DB_NAME", "universe"),
		SSLMode:         getEnvStr("DB_SSLMODE", "disable"),
		MaxConns:        25,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 10 * time.Minute,
	}
	if cfg.Password == "" {
		log.Warn("database password not set, connecting without one")
	}
	return cfg
}

// PostgresStore is the opt-in, shared-infrastructure persistence backend.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to PostgreSQL with retry and ensures the schema
// exists, mirroring connection.go's NewDB retry-then-ping sequence.
func OpenPostgres(ctx context.Context, cfg *PGConfig) (*PostgresStore, error) {
	if cfg == nil {
		cfg = DefaultPGConfig()
	}

	dsn := cfg.RawDSN
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d pool_min_conns=%d",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode, cfg.MaxConns, cfg.MinConns,
		)
	}

	var pool *pgxpool.Pool
	retryConfig := errors.DefaultRetryConfig()

	err := errors.Retry(ctx, func() error {
		poolCfg, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			errors.RecordGlobalError("database", "connection_parse", err)
			return err
		}
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

		p, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			errors.RecordGlobalError("database", "connection_open", err)
			log.Error("failed to open postgres pool: error=%v", err)
			return err
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := p.Ping(pingCtx); err != nil {
			errors.RecordGlobalError("database", "connection_ping", err)
			log.Error("failed to ping postgres: error=%v", err)
			p.Close()
			return err
		}

		pool = p
		return nil
	}, retryConfig, errors.IsTransientError)
	if err != nil {
		return nil, fmt.Errorf("persistence: connect postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("persistence: create schema: %w", err)
	}

	log.Info("postgres store connected: host=%s database=%s", cfg.Host, cfg.Database)
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	log.Info("closing postgres store")
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveMeta(ctx context.Context, m Meta) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		errors.RecordGlobalError("database", "begin_save_meta", err)
		return fmt.Errorf("persistence: begin save meta: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := map[string]string{
		"seed":               fmt.Sprintf("%d", m.Seed),
		"tick":               fmt.Sprintf("%d", m.Tick),
		"generation_version": fmt.Sprintf("%d", m.GenerationVersion),
	}
	for k, v := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO meta(key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
			k, v); err != nil {
			errors.RecordGlobalError("database", "save_meta", err)
			return fmt.Errorf("persistence: save meta %s: %w", k, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) LoadMeta(ctx context.Context) (Meta, bool, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		errors.RecordGlobalError("database", "load_meta", err)
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

func (s *PostgresStore) SaveSector(ctx context.Context, coord models.Sector, generatedTick int64, systems []models.System) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		errors.RecordGlobalError("database", "begin_save_sector", err)
		return fmt.Errorf("persistence: begin save sector: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO sectors(x, y, z, generated_tick) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (x, y, z) DO UPDATE SET generated_tick = excluded.generated_tick`,
		coord.X, coord.Y, coord.Z, generatedTick); err != nil {
		errors.RecordGlobalError("database", "save_sector_row", err)
		return fmt.Errorf("persistence: save sector row: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM systems WHERE sector_x = $1 AND sector_y = $2 AND sector_z = $3`,
		coord.X, coord.Y, coord.Z); err != nil {
		return fmt.Errorf("persistence: clear old systems: %w", err)
	}

	for _, sys := range systems {
		blob, err := packBlob(encodeSystem(sys))
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO systems(id, sector_x, sector_y, sector_z, data) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO UPDATE SET data = excluded.data`,
			sys.ID.Hex(), coord.X, coord.Y, coord.Z, blob); err != nil {
			errors.RecordGlobalError("database", "save_system", err)
			return fmt.Errorf("persistence: save system %s: %w", sys.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) SectorExists(ctx context.Context, coord models.Sector) (int, bool, error) {
	var count int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM systems WHERE sector_x = $1 AND sector_y = $2 AND sector_z = $3`,
		coord.X, coord.Y, coord.Z).Scan(&count); err != nil {
		errors.RecordGlobalError("database", "sector_exists", err)
		return 0, false, fmt.Errorf("persistence: sector_exists: %w", err)
	}

	var generated int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sectors WHERE x = $1 AND y = $2 AND z = $3`,
		coord.X, coord.Y, coord.Z).Scan(&generated); err != nil {
		return 0, false, fmt.Errorf("persistence: sector_exists row: %w", err)
	}
	if generated == 0 {
		return 0, false, nil
	}
	return count, true, nil
}

func (s *PostgresStore) LoadSector(ctx context.Context, coord models.Sector) ([]models.System, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM systems WHERE sector_x = $1 AND sector_y = $2 AND sector_z = $3`,
		coord.X, coord.Y, coord.Z)
	if err != nil {
		errors.RecordGlobalError("database", "load_sector", err)
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

func (s *PostgresStore) SaveProbe(ctx context.Context, p *models.Probe) error {
	blob, err := packBlob(encodeProbe(p))
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO probes(id, parent_id, generation, data) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET parent_id = excluded.parent_id, generation = excluded.generation, data = excluded.data`,
		p.ID.Hex(), p.ParentID.Hex(), p.Generation, blob)
	if err != nil {
		errors.RecordGlobalError("database", "save_probe", err)
		return fmt.Errorf("persistence: save probe %s: %w", p.ID, err)
	}
	return nil
}

func (s *PostgresStore) LoadProbe(ctx context.Context, id models.UID) (*models.Probe, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM probes WHERE id = $1`, id.Hex()).Scan(&blob)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("persistence: probe %s: %w", id, ErrNotFound)
		}
		errors.RecordGlobalError("database", "load_probe", err)
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

func getEnvStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var parsed int
	if _, err := fmt.Sscanf(v, "%d", &parsed); err != nil {
		log.Warn("invalid integer value for %s: %s, using default %d", key, v, def)
		return def
	}
	return parsed
}
