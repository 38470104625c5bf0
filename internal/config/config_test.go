package config

import "testing"

func TestDefaultEngineBaselines(t *testing.T) {
	cfg := DefaultEngine()

	if cfg.TicksPerCycle != 365 {
		t.Errorf("TicksPerCycle = %d, want 365", cfg.TicksPerCycle)
	}
	if cfg.BaseFuelBurn != 0.5 {
		t.Errorf("BaseFuelBurn = %v, want 0.5", cfg.BaseFuelBurn)
	}
	if cfg.ReplicationBaseTicks != 200 {
		t.Errorf("ReplicationBaseTicks = %d, want 200", cfg.ReplicationBaseTicks)
	}
	if cfg.ReplicationThresholdKg != 500000 {
		t.Errorf("ReplicationThresholdKg = %v, want 500000", cfg.ReplicationThresholdKg)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q, want sqlite", cfg.DBDriver)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("UNIVERSE_TICKS_PER_CYCLE", "42")
	cfg := DefaultEngine()
	if cfg.TicksPerCycle != 42 {
		t.Errorf("TicksPerCycle = %d, want 42 from env override", cfg.TicksPerCycle)
	}
}

func TestEnvOverrideInvalidFallsBackToDefault(t *testing.T) {
	t.Setenv("UNIVERSE_TICKS_PER_CYCLE", "not-a-number")
	cfg := DefaultEngine()
	if cfg.TicksPerCycle != 365 {
		t.Errorf("TicksPerCycle = %d, want fallback 365 on invalid override", cfg.TicksPerCycle)
	}
}
