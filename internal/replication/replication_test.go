package replication

import (
	"testing"

	"github.com/JoshuaAFerguson/universe/internal/models"
	"github.com/JoshuaAFerguson/universe/internal/prng"
)

func richProbe() *models.Probe {
	p := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Alice")
	for r := range p.Resources {
		p.Resources[r] = resourceCost[r] * 1.5
	}
	p.Personality.DriftRate = 0.2
	p.Character.Quirks = []string{"hums static", "counts stars", "names rocks"}
	p.Character.EarthMemories = []models.EarthMemory{
		{Text: "the smell of rain on warm asphalt outside the launch facility", Fidelity: 1.0},
	}
	p.EnergyJoules = 10000
	p.FuelKg = 500
	p.MassKg = 1000
	return p
}

func TestBeginRejectsInsufficientResources(t *testing.T) {
	p := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Alice")
	if err := Begin(p, DefaultParams()); err == nil {
		t.Fatalf("expected rejection for a freshly minted probe with no resources")
	}
	if p.Status == models.StatusReplicating {
		t.Fatalf("rejected Begin must not mutate status")
	}
}

func TestBeginRejectsNonActive(t *testing.T) {
	p := richProbe()
	p.Status = models.StatusMining
	if err := Begin(p, DefaultParams()); err == nil {
		t.Fatalf("expected rejection for a non-active probe")
	}
}

func TestReplicationLifecycle(t *testing.T) {
	p := richProbe()
	if err := Begin(p, DefaultParams()); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if p.Status != models.StatusReplicating {
		t.Fatalf("expected Replicating status, got %v", p.Status)
	}
	if p.Replication.Total != BaseTicks {
		t.Fatalf("expected Total=%d, got %d", BaseTicks, p.Replication.Total)
	}

	forked := false
	completed := false
	for i := 0; i < BaseTicks; i++ {
		result := Step(p, DefaultParams())
		if result.ConsciousnessForked {
			forked = true
			if p.Replication.Progress < ConsciousnessForkProgress {
				t.Fatalf("forked before reaching %v progress", ConsciousnessForkProgress)
			}
		}
		if result.Completed {
			completed = true
			break
		}
	}
	if !forked {
		t.Fatalf("expected consciousness fork milestone to fire before completion")
	}
	if !completed {
		t.Fatalf("expected replication to complete within %d ticks", BaseTicks)
	}
	for r, v := range p.Resources {
		if v < 0 {
			t.Fatalf("resource %v went negative: %v", r, v)
		}
	}
}

// TestThresholdKgScalesResourceRequirement proves config.Engine.ReplicationThresholdKg
// actually changes behavior, not just struct-parses-env.
func TestThresholdKgScalesResourceRequirement(t *testing.T) {
	p := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Alice")
	for r := range p.Resources {
		p.Resources[r] = resourceCost[r] * 0.01
	}

	lowThreshold := Params{BaseTicks: BaseTicks, ThresholdKg: 1000, ForkMilestone: ConsciousnessForkProgress}
	if err := Begin(p, lowThreshold); err != nil {
		t.Fatalf("expected a tiny threshold to make the probe eligible, got: %v", err)
	}
}

// TestForkMilestoneControlsForkTiming proves config.Engine.ReplicationForkMilestone
// actually changes when the consciousness fork fires.
func TestForkMilestoneControlsForkTiming(t *testing.T) {
	p := richProbe()
	params := Params{BaseTicks: 10, ThresholdKg: defaultThresholdKg, ForkMilestone: 0.1}
	if err := Begin(p, params); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	result := Step(p, params)
	if !result.ConsciousnessForked {
		t.Fatalf("expected fork on first step with ForkMilestone=0.1 and Total=10")
	}
}

func TestFinalizeChildInheritance(t *testing.T) {
	parent := richProbe()
	parent.Capabilities.TechLevels[models.TechPropulsion] = 40
	parent.Capabilities.RecomputeRates()
	if err := Begin(parent, DefaultParams()); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	rng := prng.New(7)
	childID := models.UID{Hi: 99, Lo: 99}
	child, entry := Finalize(parent, childID, 1000, rng)

	if child.ID != childID {
		t.Fatalf("expected child ID %v, got %v", childID, child.ID)
	}
	if child.ParentID != parent.ID {
		t.Fatalf("expected ParentID %v, got %v", parent.ID, child.ParentID)
	}
	if child.Generation != parent.Generation+1 {
		t.Fatalf("expected generation %d, got %d", parent.Generation+1, child.Generation)
	}
	if entry.ParentID != parent.ID || entry.ChildID != childID || entry.BirthTick != 1000 {
		t.Fatalf("unexpected lineage entry: %+v", entry)
	}
	if parent.Status != models.StatusActive {
		t.Fatalf("expected parent to return to Active, got %v", parent.Status)
	}
	if parent.Replication.Active {
		t.Fatalf("expected parent's replication state to be cleared")
	}

	if child.Personality.DriftRate < MinDriftRate {
		t.Fatalf("expected child drift rate floored at %v, got %v", MinDriftRate, child.Personality.DriftRate)
	}
	if child.Personality.Curiosity < -1 || child.Personality.Curiosity > 1 {
		t.Fatalf("expected clamped personality trait, got %v", child.Personality.Curiosity)
	}

	if len(child.Character.EarthMemories) != len(parent.Character.EarthMemories) {
		t.Fatalf("expected earth memory count preserved across generation")
	}
	for i, em := range child.Character.EarthMemories {
		if em.Fidelity >= parent.Character.EarthMemories[i].Fidelity {
			t.Fatalf("expected degraded fidelity, parent=%v child=%v", parent.Character.EarthMemories[i].Fidelity, em.Fidelity)
		}
		if em.Fidelity < MinEarthMemoryFidelity {
			t.Fatalf("expected fidelity floored at %v, got %v", MinEarthMemoryFidelity, em.Fidelity)
		}
	}
}

func TestFinalizeResourceSplit(t *testing.T) {
	parent := richProbe()
	parent.EnergyJoules = 1000
	parent.FuelKg = 200
	parent.MassKg = 800
	if err := Begin(parent, DefaultParams()); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	energyBeforeFinalize := parent.EnergyJoules
	fuelBeforeFinalize := parent.FuelKg
	massBeforeFinalize := parent.MassKg

	rng := prng.New(1)
	child, _ := Finalize(parent, models.UID{Hi: 2, Lo: 2}, 1, rng)

	if child.EnergyJoules != energyBeforeFinalize*0.3 {
		t.Fatalf("expected child energy = 30%% of parent, got %v", child.EnergyJoules)
	}
	if child.FuelKg != fuelBeforeFinalize*0.3 {
		t.Fatalf("expected child fuel = 30%% of parent, got %v", child.FuelKg)
	}
	if child.MassKg != massBeforeFinalize*0.5 {
		t.Fatalf("expected child mass = 50%% of parent, got %v", child.MassKg)
	}
	if child.HullIntegrity != 1.0 {
		t.Fatalf("expected fresh hull, got %v", child.HullIntegrity)
	}
}
