package society

import (
	"testing"

	"github.com/JoshuaAFerguson/universe/internal/models"
)

func twoProbes() (*models.Probe, *models.Probe) {
	a := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Alice")
	b := models.NewProbe(models.UID{Hi: 2, Lo: 2}, "Bob")
	return a, b
}

func TestTradeDeductsImmediatelyAndCreditsOnDelivery(t *testing.T) {
	m := NewManager()
	sender, receiver := twoProbes()
	sender.Resources[models.ResourceIron] = 1000

	trade, err := m.InitiateTrade(sender, receiver, models.ResourceIron, 400, true, 10)
	if err != nil {
		t.Fatalf("InitiateTrade: %v", err)
	}
	if sender.Resources[models.ResourceIron] != 600 {
		t.Fatalf("expected immediate deduction, got %v", sender.Resources[models.ResourceIron])
	}
	if trade.ArrivalTick != 10 {
		t.Fatalf("expected same-system arrival this tick, got %v", trade.ArrivalTick)
	}

	probes := map[models.UID]*models.Probe{sender.ID: sender, receiver.ID: receiver}
	m.DeliverDueTrades(10, probes)

	if receiver.Resources[models.ResourceIron] != 400 {
		t.Fatalf("expected receiver credited, got %v", receiver.Resources[models.ResourceIron])
	}
	if sender.RelationshipWith(receiver.ID).Trust != TrustTrade {
		t.Fatalf("expected trust bump of %v, got %v", TrustTrade, sender.RelationshipWith(receiver.ID).Trust)
	}
	if receiver.RelationshipWith(sender.ID).Trust != TrustTrade {
		t.Fatalf("expected symmetric trust bump on receiver side")
	}
}

func TestInterSystemTradeDelayed(t *testing.T) {
	m := NewManager()
	sender, receiver := twoProbes()
	sender.Resources[models.ResourceWater] = 500

	trade, err := m.InitiateTrade(sender, receiver, models.ResourceWater, 100, false, 50)
	if err != nil {
		t.Fatalf("InitiateTrade: %v", err)
	}
	if trade.ArrivalTick != 150 {
		t.Fatalf("expected arrival at tick 150, got %v", trade.ArrivalTick)
	}
}

func TestTerritoryClaimAndTrespassOncePerEntry(t *testing.T) {
	m := NewManager()
	owner, visitor := twoProbes()
	systemID := models.UID{Hi: 9, Lo: 9}

	if err := m.Claim(systemID, owner); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if err := m.Claim(systemID, visitor); err == nil {
		t.Fatalf("expected claim rejection for already-claimed system")
	}

	probes := map[models.UID]*models.Probe{owner.ID: owner, visitor.ID: visitor}

	if !m.CheckTrespass(visitor, systemID, probes) {
		t.Fatalf("expected trespass to be charged on first entry")
	}
	if m.CheckTrespass(visitor, systemID, probes) {
		t.Fatalf("expected no repeat charge while still present")
	}
	if visitor.RelationshipWith(owner.ID).Trust != TrustTerritoryTrespass {
		t.Fatalf("expected trespass trust penalty, got %v", visitor.RelationshipWith(owner.ID).Trust)
	}

	// Visitor leaves (system no longer claimed from their perspective / not present).
	m.CheckTrespass(visitor, models.UID{Hi: 0, Lo: 0}, probes)
	// Re-entry should charge again.
	if !m.CheckTrespass(visitor, systemID, probes) {
		t.Fatalf("expected trespass to be charged again on re-entry")
	}
}

func TestCollaborativeConstructionDiminishingReturns(t *testing.T) {
	if got := EffectiveBuildRate(1); got != 1.0 {
		t.Fatalf("EffectiveBuildRate(1) = %v, want 1.0", got)
	}
	if got := EffectiveBuildRate(4); got != 1+0.6*3 {
		t.Fatalf("EffectiveBuildRate(4) = %v, want %v", got, 1+0.6*3)
	}

	m := NewManager()
	c, err := m.BeginConstruction(models.UID{Hi: 1, Lo: 1}, models.StructureRelay, models.UID{Hi: 2, Lo: 2},
		[]models.UID{{Hi: 10, Lo: 10}, {Hi: 11, Lo: 11}})
	if err != nil {
		t.Fatalf("BeginConstruction: %v", err)
	}

	spec := models.StructureSpecs[models.StructureRelay]
	rate := EffectiveBuildRate(2)
	ticksNeeded := int(float64(spec.BaseTicks)/rate) + 1
	var complete bool
	for i := 0; i < ticksNeeded; i++ {
		complete = m.StepConstruction(c)
		if complete {
			break
		}
	}
	if !complete {
		t.Fatalf("expected construction to complete within %d ticks", ticksNeeded)
	}
}

func TestProposalResolutionStrictMajorityTiesFail(t *testing.T) {
	m := NewManager()
	p := m.Propose(models.UID{Hi: 1, Lo: 1}, "build a beacon array", 0, 10)
	m.Vote(p.ID, models.UID{Hi: 1, Lo: 1}, true)
	m.Vote(p.ID, models.UID{Hi: 2, Lo: 2}, false)

	resolved := m.ResolveDue(10)
	if len(resolved) != 1 {
		t.Fatalf("expected one resolved proposal, got %d", len(resolved))
	}
	if resolved[0].Passed {
		t.Fatalf("expected a tie to fail")
	}

	p2 := m.Propose(models.UID{Hi: 1, Lo: 1}, "claim a new system", 0, 10)
	m.Vote(p2.ID, models.UID{Hi: 1, Lo: 1}, true)
	m.Vote(p2.ID, models.UID{Hi: 2, Lo: 2}, true)
	m.Vote(p2.ID, models.UID{Hi: 3, Lo: 3}, false)
	resolved2 := m.ResolveDue(10)
	if len(resolved2) != 1 || !resolved2[0].Passed {
		t.Fatalf("expected strict majority to pass")
	}
}

func TestShareTechBumpsAndDiscountsResearch(t *testing.T) {
	m := NewManager()
	sender, receiver := twoProbes()
	sender.Capabilities.TechLevels[models.TechSensors] = 40
	receiver.Capabilities.TechLevels[models.TechSensors] = 10

	if err := m.ShareTech(sender, receiver, models.TechSensors); err != nil {
		t.Fatalf("ShareTech: %v", err)
	}
	if receiver.Capabilities.TechLevels[models.TechSensors] != 40 {
		t.Fatalf("expected receiver bumped to sender's level, got %d", receiver.Capabilities.TechLevels[models.TechSensors])
	}
	if receiver.RelationshipWith(sender.ID).Trust != TrustTechShare {
		t.Fatalf("expected tech-share trust bump, got %v", receiver.RelationshipWith(sender.ID).Trust)
	}

	budget := m.ResearchTickBudget(receiver.ID, models.TechSensors, 100)
	if budget != 40 {
		t.Fatalf("expected 40%% discounted budget, got %d", budget)
	}
	// Discount is single-use.
	budget2 := m.ResearchTickBudget(receiver.ID, models.TechSensors, 100)
	if budget2 != 100 {
		t.Fatalf("expected discount consumed, got %d", budget2)
	}
}

func TestShareTechRejectsWhenNotHigher(t *testing.T) {
	m := NewManager()
	sender, receiver := twoProbes()
	sender.Capabilities.TechLevels[models.TechSensors] = 5
	receiver.Capabilities.TechLevels[models.TechSensors] = 10

	if err := m.ShareTech(sender, receiver, models.TechSensors); err == nil {
		t.Fatalf("expected rejection when sender's level is not higher")
	}
}
