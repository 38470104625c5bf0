// File: cmd/engine/main.go
// Project: UNIVERSE
// Description: Main entry point for the simulation engine's stdin/stdout
//              protocol loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JoshuaAFerguson/universe/internal/config"
	"github.com/JoshuaAFerguson/universe/internal/engine"
	"github.com/JoshuaAFerguson/universe/internal/logger"
	"github.com/JoshuaAFerguson/universe/internal/persistence"
	"github.com/JoshuaAFerguson/universe/internal/protocol"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	log = logger.WithComponent("main")
)

func main() {
	var (
		seed        = flag.Int64("seed", 0, "master RNG seed (0 picks the config default)")
		dbDriver    = flag.String("db", "", "persistence backend: sqlite or postgres (empty keeps UNIVERSE_DB_DRIVER, default sqlite)")
		dbDSN       = flag.String("dsn", "", "data source name for the chosen backend")
		resume      = flag.Bool("resume", false, "load a previously persisted universe on startup")
		visual      = flag.Bool("visual", false, "unsupported: this build has no renderer")
		showVersion = flag.Bool("version", false, "show version information")
		logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
		logFile     = flag.String("log-file", "", "log file path (empty for stdout only)")
	)
	flag.Parse()

	logCfg := logger.Config{Level: *logLevel, FilePath: *logFile, ToStdout: true, WithCaller: true}
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if *showVersion {
		fmt.Printf("universe %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}
	if *visual {
		log.Fatal("--visual is not supported: this build exposes only the stdin/stdout protocol")
	}

	cfg := config.DefaultEngine()
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
	}
	if *dbDSN != "" {
		cfg.DBDSN = *dbDSN
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutdown signal received, stopping the protocol session")
		cancel()
	}()

	var store persistence.Store
	if cfg.DBDriver != "" {
		opened, err := openStore(ctx, cfg)
		if err != nil {
			log.Fatal("failed to open persistence backend %q: %v", cfg.DBDriver, err)
		}
		store = opened
		defer store.Close()
	}

	eng := engine.New(cfg, store)
	if *resume && store != nil {
		if err := eng.Load(ctx, checkpointPath(cfg)); err != nil {
			log.Warn("resume requested but no prior universe could be loaded: %v", err)
		}
	}

	log.Info("universe engine starting: seed=%d driver=%q", cfg.Seed, cfg.DBDriver)

	session := protocol.NewSession(protocol.Engine(eng), os.Stdin, os.Stdout)
	if store != nil && cfg.SaveInterval > 0 {
		session.SetAutosave(cfg.SaveInterval, checkpointPath(cfg))
	}
	if err := session.Run(ctx); err != nil {
		log.Fatal("protocol session error: %v", err)
	}

	log.Info("engine shutdown complete")
}

// checkpointPath returns the SQLite file Engine.Save/Load should use.
// Engine.Save/Load always checkpoint to SQLite regardless of the configured
// continuous store (see views.go), so cfg.DBDSN is only reusable here when
// the continuous store is itself SQLite; a postgres DSN is meaningless as a
// filename, so postgres deployments get their own dedicated checkpoint file.
func checkpointPath(cfg config.Engine) string {
	if cfg.DBDriver == "sqlite" && cfg.DBDSN != "" {
		return cfg.DBDSN
	}
	return "universe.db"
}

func openStore(ctx context.Context, cfg config.Engine) (persistence.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = "universe.db"
		}
		return persistence.OpenSQLite(dsn)
	case "postgres":
		pgCfg := persistence.DefaultPGConfig()
		pgCfg.RawDSN = cfg.DBDSN
		return persistence.OpenPostgres(ctx, pgCfg)
	default:
		return nil, fmt.Errorf("unrecognized db driver %q", cfg.DBDriver)
	}
}
