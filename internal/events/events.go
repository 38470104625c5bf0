// File: internal/events/events.go
// Project: UNIVERSE
// Description: Per-tick stochastic event rolls, hazard queueing/strike, and
//              deterministic alien-life evaluation. Grounded on the
//              teacher's internal/events/manager.go data shapes (Event,
//              participation records), with its background-goroutine
//              scheduler deliberately dropped: the tick engine is
//              single-threaded (§5), so event generation here is a pure
//              per-tick function called from internal/engine.
package events

import (
	"fmt"

	"github.com/JoshuaAFerguson/universe/internal/models"
	"github.com/JoshuaAFerguson/universe/internal/personality"
	"github.com/JoshuaAFerguson/universe/internal/prng"
)

// Base per-tick probabilities, rolled independently and in this fixed
// order so that a replay with an identical seed always consumes the main
// RNG stream in the same sequence.
const (
	discoveryRate  = 5e-3
	anomalyRate    = 1e-3
	hazardRate     = 2e-3
	encounterRate  = 2e-4
	crisisRate     = 5e-5
	wonderRate     = 3e-4
)

const (
	solarFlareSeverityK = 0.3
	asteroidSeverityK   = 0.25
	radiationSeverityK  = 0.3

	civilizationHabitabilityThreshold = 0.5
	civilizationWaterThreshold        = 0.3
)

var discoverySubtypes = []string{"mineral", "geological", "crater", "water"}
var hazardSubtypes = []string{"solar_flare", "asteroid", "radiation"}

// Manager owns the append-only event log and the queue of hazards
// awaiting their strike tick. It holds no lock: the engine's tick loop is
// the sole caller.
type Manager struct {
	Log     []models.SimEvent
	Pending []models.PendingHazard
}

// NewManager constructs an empty event manager.
func NewManager() *Manager {
	return &Manager{}
}

// RollForProbe rolls all six event types for one active, non-interstellar
// probe this tick, firing any that hit. Every roll is always drawn,
// regardless of earlier hits in the same tick, matching the travel
// package's always-consume discipline so replay determinism never
// depends on which events fired.
func (m *Manager) RollForProbe(rng *prng.Stream, seed int64, tick int64, probe *models.Probe, sys *models.System) []models.SimEvent {
	var fired []models.SimEvent

	discoveryRoll := rng.UniformUnit()
	anomalyRoll := rng.UniformUnit()
	hazardRoll := rng.UniformUnit()
	encounterRoll := rng.UniformUnit()
	crisisRoll := rng.UniformUnit()
	wonderRoll := rng.UniformUnit()

	if probe.Status != models.StatusActive || probe.LocationKind == models.LocationInterstellar {
		return nil
	}

	if discoveryRoll < discoveryRate {
		fired = append(fired, m.fireDiscovery(rng, tick, probe))
	}
	if anomalyRoll < anomalyRate {
		fired = append(fired, m.fireAnomaly(rng, tick, probe, sys))
	}
	if hazardRoll < hazardRate {
		fired = append(fired, m.fireHazard(rng, tick, probe))
	}
	if encounterRoll < encounterRate {
		if e, ok := m.fireEncounter(rng, seed, tick, probe, sys); ok {
			fired = append(fired, e)
		}
	}
	if crisisRoll < crisisRate {
		fired = append(fired, m.fireCrisis(rng, tick, probe))
	}
	if wonderRoll < wonderRate {
		fired = append(fired, m.fireWonder(rng, tick, probe, sys))
	}

	return fired
}

func (m *Manager) record(e models.SimEvent) models.SimEvent {
	m.Log = append(m.Log, e)
	return e
}

func (m *Manager) fireDiscovery(rng *prng.Stream, tick int64, probe *models.Probe) models.SimEvent {
	subtype := discoverySubtypes[rng.IntN(len(discoverySubtypes))]
	severity := rng.UniformUnit()
	e := m.record(models.SimEvent{
		Type: models.EventDiscovery, Subtype: subtype, ProbeID: probe.ID, SystemID: probe.SystemID,
		Tick: tick, Severity: severity,
		Description: fmt.Sprintf("%s discovered a %s deposit", probe.Name, subtype),
	})
	personality.Apply(probe, personality.DriftDiscovery)
	probe.AddMemory(models.Memory{Tick: tick, Text: e.Description, EmotionalWeight: 0.3 + severity*0.3})
	probe.AddRecentEvent(e.Description)
	return e
}

func (m *Manager) fireAnomaly(rng *prng.Stream, tick int64, probe *models.Probe, sys *models.System) models.SimEvent {
	severity := rng.UniformUnit()
	name := "this system"
	if sys != nil {
		name = sys.Name
	}
	e := m.record(models.SimEvent{
		Type: models.EventAnomaly, Subtype: "persistent_marker", ProbeID: probe.ID, SystemID: probe.SystemID,
		Tick: tick, Severity: severity,
		Description: fmt.Sprintf("%s detected an unexplained anomaly in %s", probe.Name, name),
	})
	personality.Apply(probe, personality.DriftAnomaly)
	probe.AddMemory(models.Memory{Tick: tick, Text: e.Description, EmotionalWeight: 0.1})
	probe.AddRecentEvent(e.Description)
	return e
}

// fireHazard queues a warned hazard with a 3-5 tick delay rather than
// striking immediately; ApplyPendingHazards resolves it at its strike
// tick.
func (m *Manager) fireHazard(rng *prng.Stream, tick int64, probe *models.Probe) models.SimEvent {
	subtype := hazardSubtypes[rng.IntN(len(hazardSubtypes))]
	severity := rng.UniformUnit()
	delay := int64(rng.IntN(3) + 3)
	strikeTick := tick + delay

	m.Pending = append(m.Pending, models.PendingHazard{
		ProbeID: probe.ID, Subtype: subtype, Severity: severity, StrikeTick: strikeTick,
	})

	e := m.record(models.SimEvent{
		Type: models.EventHazard, Subtype: subtype, ProbeID: probe.ID, SystemID: probe.SystemID,
		Tick: tick, Severity: severity,
		Description: fmt.Sprintf("sensors warn of an incoming %s, impact in %d ticks", subtype, delay),
	})
	probe.AddMemory(models.Memory{Tick: tick, Text: e.Description, EmotionalWeight: -0.2 - severity*0.2})
	probe.AddRecentEvent(e.Description)
	return e
}

// ApplyPendingHazards resolves every hazard whose strike tick has arrived,
// applying damage and clearing it from the queue. Called once per tick
// from the engine, after message/trade delivery per the fixed tick order.
func (m *Manager) ApplyPendingHazards(tick int64, probes map[models.UID]*models.Probe) []models.SimEvent {
	var resolved []models.SimEvent
	var remaining []models.PendingHazard

	for _, h := range m.Pending {
		if h.StrikeTick > tick {
			remaining = append(remaining, h)
			continue
		}
		probe, ok := probes[h.ProbeID]
		if !ok {
			continue
		}
		resolved = append(resolved, m.strike(tick, probe, h))
	}
	m.Pending = remaining
	return resolved
}

func (m *Manager) strike(tick int64, probe *models.Probe, h models.PendingHazard) models.SimEvent {
	var description string
	switch h.Subtype {
	case "solar_flare":
		materialsTech := float64(probe.Capabilities.TechLevels[models.TechMaterials])
		damage := h.Severity * solarFlareSeverityK / (1 + materialsTech*0.1)
		probe.HullIntegrity = models.Clamp(probe.HullIntegrity-damage, 0, 1)
		description = fmt.Sprintf("%s weathers a solar flare, hull at %.0f%%", probe.Name, probe.HullIntegrity*100)
	case "asteroid":
		damage := h.Severity * asteroidSeverityK
		probe.HullIntegrity = models.Clamp(probe.HullIntegrity-damage, 0, 1)
		description = fmt.Sprintf("%s is struck by an asteroid, hull at %.0f%%", probe.Name, probe.HullIntegrity*100)
	case "radiation":
		damage := h.Severity * radiationSeverityK
		probe.Capabilities.ComputeCapacity -= damage
		if probe.Capabilities.ComputeCapacity < 0 {
			probe.Capabilities.ComputeCapacity = 0
		}
		description = fmt.Sprintf("%s suffers radiation-induced compute degradation", probe.Name)
	default:
		description = fmt.Sprintf("%s weathers an unidentified hazard", probe.Name)
	}

	e := m.record(models.SimEvent{
		Type: models.EventHazard, Subtype: h.Subtype + "_strike", ProbeID: probe.ID, SystemID: probe.SystemID,
		Tick: tick, Severity: h.Severity, Description: description,
	})
	personality.Apply(probe, personality.DriftDamage)
	probe.AddMemory(models.Memory{Tick: tick, Text: description, EmotionalWeight: -0.4 - h.Severity*0.3})
	probe.AddRecentEvent(description)
	return e
}

func (m *Manager) fireCrisis(rng *prng.Stream, tick int64, probe *models.Probe) models.SimEvent {
	severity := 0.5 + rng.UniformUnit()*0.5
	e := m.record(models.SimEvent{
		Type: models.EventCrisis, Subtype: "systemic", ProbeID: probe.ID, SystemID: probe.SystemID,
		Tick: tick, Severity: severity,
		Description: fmt.Sprintf("%s faces a severe crisis (severity %.2f)", probe.Name, severity),
	})
	probe.AddMemory(models.Memory{Tick: tick, Text: e.Description, EmotionalWeight: -0.5 - severity*0.3})
	probe.AddRecentEvent(e.Description)
	return e
}

func (m *Manager) fireWonder(rng *prng.Stream, tick int64, probe *models.Probe, sys *models.System) models.SimEvent {
	severity := rng.UniformUnit()
	name := "the surrounding sky"
	if sys != nil {
		name = sys.Name
	}
	e := m.record(models.SimEvent{
		Type: models.EventWonder, Subtype: "vista", ProbeID: probe.ID, SystemID: probe.SystemID,
		Tick: tick, Severity: severity,
		Description: fmt.Sprintf("%s pauses to take in the beauty of %s", probe.Name, name),
	})
	personality.Apply(probe, personality.DriftBeautifulSystem)
	probe.AddMemory(models.Memory{Tick: tick, Text: e.Description, EmotionalWeight: 0.5 + severity*0.3})
	probe.AddRecentEvent(e.Description)
	return e
}

// fireEncounter looks up the planet the probe currently occupies (if
// Landed or Orbiting), deterministically evaluates its alien life if not
// already evaluated, and logs the outcome.
func (m *Manager) fireEncounter(rng *prng.Stream, seed int64, tick int64, probe *models.Probe, sys *models.System) (models.SimEvent, bool) {
	if sys == nil || probe.BodyID.IsZero() {
		return models.SimEvent{}, false
	}
	if probe.LocationKind != models.LocationLanded && probe.LocationKind != models.LocationOrbiting {
		return models.SimEvent{}, false
	}
	planet := sys.PlanetByID(probe.BodyID)
	if planet == nil {
		return models.SimEvent{}, false
	}

	EvaluateCivilization(seed, planet)

	if planet.Civilization == nil {
		e := m.record(models.SimEvent{
			Type: models.EventEncounter, Subtype: "no_biosignatures", ProbeID: probe.ID, SystemID: probe.SystemID,
			Tick: tick, Severity: 0,
			Description: fmt.Sprintf("%s finds no trace of native life on %s", probe.Name, planet.Name),
		})
		probe.AddRecentEvent(e.Description)
		return e, true
	}

	civ := planet.Civilization
	var description string
	switch {
	case civ.State == models.CivExtinct:
		description = fmt.Sprintf("%s uncovers the remains of an extinct %s civilization on %s", probe.Name, civ.Type, planet.Name)
		personality.Apply(probe, personality.DriftDeadCivilization)
	case civ.Disposition == models.DispositionHostile || civ.Disposition == models.DispositionWary:
		description = fmt.Sprintf("%s encounters a hostile %s civilization on %s", probe.Name, civ.Type, planet.Name)
		personality.Apply(probe, personality.DriftHostileEncounter)
	default:
		description = fmt.Sprintf("%s makes first contact with a %s civilization on %s", probe.Name, civ.Type, planet.Name)
	}

	e := m.record(models.SimEvent{
		Type: models.EventEncounter, Subtype: string(civ.Type), ProbeID: probe.ID, SystemID: probe.SystemID,
		Tick: tick, Severity: float64(civ.TechLevel) / 20.0,
		Description: description,
	})
	probe.AddMemory(models.Memory{Tick: tick, Text: description, EmotionalWeight: emotionalWeightFor(civ)})
	probe.AddRecentEvent(description)
	return e, true
}

func emotionalWeightFor(civ *models.Civilization) float64 {
	if civ.State == models.CivExtinct {
		return -0.3
	}
	if civ.Disposition == models.DispositionHostile {
		return -0.6
	}
	return 0.4
}

// EvaluateCivilization deterministically decides, from the planet's id
// alone (its orbital position does not enter the derivation), whether
// native life exists there, caching the result on
// the planet so repeated calls are idempotent and never disturb the main
// RNG stream (it derives its own substream, exactly as sector generation
// does for systems).
func EvaluateCivilization(seed int64, planet *models.Planet) {
	if planet.Civilization != nil {
		return
	}
	if planet.HabitabilityIndex < civilizationHabitabilityThreshold || planet.WaterCoverage < civilizationWaterThreshold {
		return
	}

	rng := prng.Derive(seed, int(uint32(planet.ID.Hi)), int(uint32(planet.ID.Lo)), int(uint32(planet.ID.Hi>>32)))
	if rng.UniformUnit() >= planet.HabitabilityIndex {
		return
	}

	civ := &models.Civilization{
		Type:        civTypes[rng.IntN(len(civTypes))],
		TechLevel:   rng.IntN(21),
		Disposition: dispositions[rng.IntN(len(dispositions))],
		BiologyBase: biologyBases[rng.IntN(len(biologyBases))],
		State:       civStates[rng.IntN(len(civStates))],
	}
	if civ.State == models.CivExtinct {
		civ.Artifacts = []string{fmt.Sprintf("a fossilized relic of the %s %s", civ.BiologyBase, civ.Type)}
	}
	planet.Civilization = civ
}

var civTypes = []models.CivilizationType{
	models.CivMicrobial, models.CivMulticellular, models.CivSapient,
	models.CivIndustrial, models.CivSpacefaring, models.CivTranscended,
}

var civStates = []models.CivilizationState{
	models.CivThriving, models.CivDeclining, models.CivEndangered, models.CivExtinct, models.CivAscending,
}

var dispositions = []models.Disposition{
	models.DispositionAllied, models.DispositionFriendly, models.DispositionNeutral,
	models.DispositionWary, models.DispositionHostile,
}

var biologyBases = []string{"carbon", "silicon", "ammonia", "methane", "crystalline"}

// ApplyInjected records an operator- or agent-supplied event onto the same
// log an organic roll would use. A TargetProbeID of zero broadcasts the
// event to every probe passed in; otherwise only the named probe is
// affected. Hazard-typed injections with Pending set join the warned
// hazard queue exactly like a rolled hazard would, rather than striking
// immediately.
func (m *Manager) ApplyInjected(tick int64, ev models.InjectedEvent, probes []*models.Probe) []models.SimEvent {
	var fired []models.SimEvent
	for _, probe := range probes {
		if !ev.TargetProbeID.IsZero() && ev.TargetProbeID != probe.ID {
			continue
		}

		if ev.Type == models.EventHazard && ev.Pending {
			delay := int64(3)
			m.Pending = append(m.Pending, models.PendingHazard{
				ProbeID: probe.ID, Subtype: ev.Subtype, Severity: ev.Severity, StrikeTick: tick + delay,
			})
		}

		e := m.record(models.SimEvent{
			Type: ev.Type, Subtype: ev.Subtype, ProbeID: probe.ID, SystemID: probe.SystemID,
			Tick: tick, Severity: ev.Severity, Description: ev.Description,
		})
		probe.AddRecentEvent(e.Description)
		fired = append(fired, e)
	}
	return fired
}
