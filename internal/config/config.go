// File: internal/config/config.go
// Project: UNIVERSE
// Description: Engine parameter table with environment-variable overrides,
//              following the teacher's database.Config/getEnv pattern.
package config

import (
	"os"
	"strconv"

	"github.com/JoshuaAFerguson/universe/internal/logger"
)

// Engine holds every tunable simulation parameter. Defaults reflect the
// values named throughout the spec; each is overridable via an environment
// variable so a deployment can tune pacing without a rebuild.
//
// Environment variables:
//   - UNIVERSE_SEED: master RNG seed (default: 0)
//   - UNIVERSE_TICKS_PER_CYCLE: ticks counted as one simulated year (default: 365)
//   - UNIVERSE_BASE_FUEL_BURN: kg of fuel burned per light-year travelled (default: 0.5)
//   - UNIVERSE_REPL_BASE_TICKS: baseline replication duration in ticks (default: 200)
//   - UNIVERSE_REPL_THRESHOLD_KG: minimum accumulated mass to begin replication (default: 500000)
//   - UNIVERSE_REPL_FORK_MILESTONE: replication progress fraction at which the consciousness fork fires (default: 0.8)
//   - UNIVERSE_COMM_RANGE_LY: base communication range in light-years (default: 5)
//   - UNIVERSE_SAVE_INTERVAL: ticks between autosaves (default: 1000)
//   - UNIVERSE_DB_DRIVER: "sqlite" or "postgres" (default: sqlite)
//   - UNIVERSE_DB_DSN: data source name for the chosen driver (default:
//     empty, meaning "use the driver's own default" — sqlite falls back to
//     universe.db, postgres falls back to its DB_HOST-style env vars)
type Engine struct {
	Seed int64

	TicksPerCycle int
	BaseFuelBurn  float64

	ReplicationBaseTicks     int
	ReplicationThresholdKg   float64
	ReplicationForkMilestone float64 // fraction of base ticks at which consciousness forks

	CommRangeLy float64

	SaveInterval int64

	DBDriver string
	DBDSN    string
}

// DefaultEngine returns the spec-mandated defaults, overridden by
// environment variables when present.
func DefaultEngine() Engine {
	cfg := Engine{
		Seed:                     getEnvAsInt64("UNIVERSE_SEED", 0),
		TicksPerCycle:            getEnvAsInt("UNIVERSE_TICKS_PER_CYCLE", 365),
		BaseFuelBurn:             getEnvAsFloat("UNIVERSE_BASE_FUEL_BURN", 0.5),
		ReplicationBaseTicks:     getEnvAsInt("UNIVERSE_REPL_BASE_TICKS", 200),
		ReplicationThresholdKg:   getEnvAsFloat("UNIVERSE_REPL_THRESHOLD_KG", 500000),
		ReplicationForkMilestone: getEnvAsFloat("UNIVERSE_REPL_FORK_MILESTONE", 0.8),
		CommRangeLy:              getEnvAsFloat("UNIVERSE_COMM_RANGE_LY", 5),
		SaveInterval:             getEnvAsInt64("UNIVERSE_SAVE_INTERVAL", 1000),
		DBDriver:                 getEnv("UNIVERSE_DB_DRIVER", "sqlite"),
		DBDSN:                    getEnv("UNIVERSE_DB_DSN", ""),
	}

	if os.Getenv("UNIVERSE_DB_DSN") != "" {
		logger.Debug("using UNIVERSE_DB_DSN from environment")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		logger.Warn("invalid integer for %s=%q, using default %d", key, v, defaultValue)
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		logger.Warn("invalid integer for %s=%q, using default %d", key, v, defaultValue)
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		logger.Warn("invalid float for %s=%q, using default %v", key, v, defaultValue)
	}
	return defaultValue
}
