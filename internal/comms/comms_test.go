package comms

import (
	"testing"

	"github.com/JoshuaAFerguson/universe/internal/models"
)

func TestCommRangeFormula(t *testing.T) {
	if got := CommRange(0, DefaultParams()); got != 5.0 {
		t.Fatalf("CommRange(0) = %v, want 5.0", got)
	}
	if got := CommRange(2, DefaultParams()); got != 15.0 {
		t.Fatalf("CommRange(2) = %v, want 15.0", got)
	}
}

// TestCommRangeUsesConfiguredBase proves config.Engine.CommRangeLy actually
// changes behavior, not just struct-parses-env.
func TestCommRangeUsesConfiguredBase(t *testing.T) {
	params := Params{BaseRangeLy: 50.0}
	if got := CommRange(0, params); got != 50.0 {
		t.Fatalf("CommRange(0) with BaseRangeLy=50 = %v, want 50.0", got)
	}
}

// TestScenarioRelayPath is scenario 6 from spec §8: two probes 30 ly apart
// (both outside each other's direct range); place one 20-ly relay
// mid-way. ShortestRelayPath returns a finite distance; remove the relay,
// it returns unreachable.
func TestScenarioRelayPath(t *testing.T) {
	origin := models.Vec3{X: 0, Y: 0, Z: 0}
	target := models.Vec3{X: 30, Y: 0, Z: 0}
	senderRange := CommRange(2, DefaultParams()) // 15 ly: reaches the mid-way relay, well short of the 30 ly gap

	m := NewManager()
	if _, ok := ShortestRelayPath(m, origin, target, senderRange); ok {
		t.Fatalf("expected unreachable with no relay")
	}

	m.RegisterRelay(&models.Relay{
		ID:       models.UID{Hi: 1, Lo: 1},
		Position: models.Vec3{X: 15, Y: 0, Z: 0},
		RangeLy:  relayRangeLy,
	})

	dist, ok := ShortestRelayPath(m, origin, target, senderRange)
	if !ok {
		t.Fatalf("expected reachable via relay")
	}
	if dist <= 0 {
		t.Fatalf("expected a positive finite path length, got %v", dist)
	}

	m.Relays = nil
	if _, ok := ShortestRelayPath(m, origin, target, senderRange); ok {
		t.Fatalf("expected unreachable again once the relay is removed")
	}
}

// TestSendTargetedViaRelayRecordsLoad exercises the supplemented
// RelayLoad field: a message routed through a relay must be counted
// against that relay while it is still in transit, and must stop being
// counted once delivered.
func TestSendTargetedViaRelayRecordsLoad(t *testing.T) {
	m := NewManager()
	relayID := models.UID{Hi: 9, Lo: 9}
	m.RegisterRelay(&models.Relay{
		ID:       relayID,
		Position: models.Vec3{X: 15, Y: 0, Z: 0},
		RangeLy:  relayRangeLy,
	})

	sender := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Alice")
	sender.EnergyJoules = 5000
	sender.Capabilities.TechLevels[models.TechCommunication] = 2
	target := models.UID{Hi: 2, Lo: 2}

	if err := SendTargeted(m, sender, models.Vec3{}, target, models.Vec3{X: 30}, "hello", 10, DefaultParams()); err != nil {
		t.Fatalf("SendTargeted: %v", err)
	}
	if len(m.Messages) != 1 || len(m.Messages[0].RelayPath) != 1 || m.Messages[0].RelayPath[0] != relayID {
		t.Fatalf("expected message to record the relay hop, got %+v", m.Messages[0])
	}
	if got := m.RelayLoad(relayID); got != 1 {
		t.Fatalf("expected relay load 1 while the message is in transit, got %d", got)
	}

	DeliverDueMessages(m, m.Messages[0].ArrivalTick)
	if got := m.RelayLoad(relayID); got != 0 {
		t.Fatalf("expected relay load 0 once the message is delivered, got %d", got)
	}
}

func TestSendTargetedChargesEnergyAndQueuesMessage(t *testing.T) {
	m := NewManager()
	sender := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Alice")
	sender.EnergyJoules = 5000
	target := models.UID{Hi: 2, Lo: 2}

	if err := SendTargeted(m, sender, models.Vec3{}, target, models.Vec3{X: 2}, "hello", 10, DefaultParams()); err != nil {
		t.Fatalf("SendTargeted: %v", err)
	}
	if sender.EnergyJoules != 4000 {
		t.Fatalf("expected energy charged, got %v", sender.EnergyJoules)
	}
	if len(m.Messages) != 1 || m.Messages[0].Status != models.MessageInTransit {
		t.Fatalf("expected one in-transit message, got %+v", m.Messages)
	}

	DeliverDueMessages(m, m.Messages[0].ArrivalTick)
	inbox := m.Inbox(target)
	if len(inbox) != 1 {
		t.Fatalf("expected delivered message in inbox, got %d", len(inbox))
	}
}

func TestSendTargetedRejectsUnreachable(t *testing.T) {
	m := NewManager()
	sender := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Alice")
	sender.EnergyJoules = 5000
	target := models.UID{Hi: 2, Lo: 2}

	err := SendTargeted(m, sender, models.Vec3{}, target, models.Vec3{X: 1000}, "hello", 10, DefaultParams())
	if err == nil {
		t.Fatalf("expected rejection for unreachable target")
	}
	if sender.EnergyJoules != 5000 {
		t.Fatalf("rejected send must not charge energy")
	}
}
