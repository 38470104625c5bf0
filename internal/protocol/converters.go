// File: internal/protocol/converters.go
// Project: UNIVERSE
// Description: Conversion between engine-internal state and wire DTOs, and
//              the per-command handlers that call into the Engine
//              interface. Mirrors the teacher's convert*ToAPI split: one
//              function per domain type, the session layer never reaches
//              into model internals directly.
package protocol

import (
	"context"
	"fmt"

	"github.com/JoshuaAFerguson/universe/internal/actuator"
	"github.com/JoshuaAFerguson/universe/internal/models"
)

// NearbyProbe is a sensor contact: another probe within range, with the
// distance the engine computed.
type NearbyProbe struct {
	ProbeID    models.UID `json:"probe_id"`
	Name       string     `json:"name"`
	DistanceLy float64    `json:"distance_ly"`
}

// ProbeView bundles everything the engine knows about one active probe's
// surroundings at the moment a tick completes, ready for wire conversion.
type ProbeView struct {
	Probe  *models.Probe
	System *models.System // nil if interstellar

	Nearby            []NearbyProbe
	Inbox             []models.Message
	VisibleBeacons    []models.Beacon
	VisibleStructures []models.Construction
	PendingTrades     []models.Trade
	ClaimedBy         models.UID // zero if current system unclaimed
	ActiveProposals   []models.Proposal
	TrustList         []models.Relationship
	PendingHazards    []models.PendingHazard
	ActiveRelays      []models.Relay
}

// TickResult is what Engine.Tick returns: the new tick number and one
// ProbeView per active probe, plus any actuator rejections keyed by probe.
type TickResult struct {
	Tick         int64
	Views        []ProbeView
	ActionErrors map[models.UID]string
}

// StatusView is the engine snapshot the "status" command reports.
type StatusView struct {
	Seed          int64
	Tick          int64
	ActiveProbes  int
	TotalProbes   int
	SystemsVisited int
}

func toPlanetWire(p models.Planet) map[string]interface{} {
	return map[string]interface{}{
		"id":                 p.ID,
		"name":               p.Name,
		"type":               p.Type,
		"mass_earth":         p.MassEarth,
		"habitability_index": p.HabitabilityIndex,
		"water_coverage":     p.WaterCoverage,
		"resource_abundance": p.ResourceAbundance,
		"surveyed":           p.Surveyed,
		"artifact":           p.Artifact,
		"civilization":       p.Civilization,
	}
}

func toSystemWire(sys *models.System) interface{} {
	if sys == nil {
		return nil
	}
	planets := make([]map[string]interface{}, 0, len(sys.Planets))
	for _, p := range sys.Planets {
		planets = append(planets, toPlanetWire(p))
	}
	return map[string]interface{}{
		"id":      sys.ID,
		"name":    sys.Name,
		"sector":  [3]int{sys.Sector.X, sys.Sector.Y, sys.Sector.Z},
		"stars":   sys.Stars,
		"planets": planets,
	}
}

func toObservationWire(v ProbeView) map[string]interface{} {
	p := v.Probe

	techArray := make([]int, models.TechDomainCount)
	copy(techArray, p.Capabilities.TechLevels[:])

	obs := map[string]interface{}{
		"id":           p.ID,
		"name":         p.Name,
		"status":       p.Status,
		"hull":         p.HullIntegrity,
		"energy":       p.EnergyJoules,
		"fuel":         p.FuelKg,
		"location":     p.LocationKind,
		"generation":   p.Generation,
		"tech":         techArray,
		"resources":    p.Resources,
		"position":     p.Destination,
		"heading":      p.Heading,
		"capabilities": p.Capabilities,
		"recent_events": p.RecentEvents,
		"system":        toSystemWire(v.System),
		"nearby_probes": v.Nearby,
		"inbox":         v.Inbox,
		"beacons":       v.VisibleBeacons,
		"structures":    v.VisibleStructures,
		"pending_trades": v.PendingTrades,
		"claimed_by":     v.ClaimedBy,
		"proposals":      v.ActiveProposals,
		"trust":          v.TrustList,
		"pending_hazards": v.PendingHazards,
		"relays":          v.ActiveRelays,
	}

	if p.Replication.Active {
		obs["replication_progress"] = p.Replication.Progress
		obs["replication_forked"] = p.Replication.ConsciousnessForked
	}
	if p.ResearchActive {
		obs["research_domain"] = p.ResearchDomain
		obs["research_ticks"] = p.ResearchTicks
	}

	return obs
}

// parseAction converts one wire action into an actuator.Action, rejecting
// malformed UIDs and unknown resource or domain names up front. The action
// name itself is passed through unchecked; actuator.Execute rejects an
// unknown action type.
func parseAction(w actionWire) (actuator.Action, error) {
	a := actuator.Action{Type: actuator.ActionType(w.Action)}

	if w.BodyID != "" {
		id, err := models.ParseUID(w.BodyID)
		if err != nil {
			return a, fmt.Errorf("body_id: %w", err)
		}
		a.BodyID = id
	}
	a.SurveyLevel = w.SurveyLevel
	if w.Resource != "" {
		idx := resourceIndex(w.Resource)
		if idx < 0 {
			return a, fmt.Errorf("resource: unknown resource %q", w.Resource)
		}
		a.Resource = models.Resource(idx)
	}
	if w.TargetSystem != "" {
		id, err := models.ParseUID(w.TargetSystem)
		if err != nil {
			return a, fmt.Errorf("target_system: %w", err)
		}
		a.TargetSystem = id
	}
	if w.TargetSector != nil {
		a.TargetSector = models.Sector{X: w.TargetSector[0], Y: w.TargetSector[1], Z: w.TargetSector[2]}
	}
	if w.TargetProbe != "" {
		id, err := models.ParseUID(w.TargetProbe)
		if err != nil {
			return a, fmt.Errorf("target_probe: %w", err)
		}
		a.TargetProbe = id
	}
	a.Text = w.Text
	a.StructureType = models.StructureType(w.StructureType)
	for _, b := range w.Builders {
		id, err := models.ParseUID(b)
		if err != nil {
			return a, fmt.Errorf("builders: %w", err)
		}
		a.Builders = append(a.Builders, id)
	}
	a.Amount = w.Amount
	a.SameSystem = w.SameSystem
	a.ProposalID = w.ProposalID
	a.InFavor = w.InFavor
	if w.Domain != "" {
		idx := domainIndex(w.Domain)
		if idx < 0 {
			return a, fmt.Errorf("domain: unknown tech domain %q", w.Domain)
		}
		a.Domain = models.TechDomain(idx)
	}
	a.DeadlineTicks = w.DeadlineTicks
	return a, nil
}

func resourceIndex(name string) int {
	for i := 0; i < int(models.ResourceCount); i++ {
		if models.Resource(i).String() == name {
			return i
		}
	}
	return -1
}

func domainIndex(name string) int {
	for i := 0; i < int(models.TechDomainCount); i++ {
		if models.TechDomain(i).String() == name {
			return i
		}
	}
	return -1
}

// --- command handlers ---

func (s *Session) handleTick(ctx context.Context, req request) interface{} {
	actions := make(map[models.UID]actuator.Action, len(req.Actions))
	for key, w := range req.Actions {
		id, err := models.ParseUID(key)
		if err != nil {
			return errorResponse(newErr(KindParseError, "actions key %q: %v", key, err))
		}
		action, err := parseAction(w)
		if err != nil {
			return errorResponse(newErr(KindInvalidArgument, "actions[%q]: %v", key, err))
		}
		actions[id] = action
	}

	result, err := s.engine.Tick(ctx, actions)
	if err != nil {
		return errorResponse(newErr(KindIO, "%v", err))
	}
	s.maybeAutosave(ctx, result.Tick)

	observations := make([]map[string]interface{}, 0, len(result.Views))
	for _, v := range result.Views {
		observations = append(observations, toObservationWire(v))
	}

	resp := map[string]interface{}{"ok": true, "tick": result.Tick, "observations": observations}
	if len(result.ActionErrors) > 0 {
		errs := make(map[string]string, len(result.ActionErrors))
		for id, msg := range result.ActionErrors {
			errs[id.String()] = msg
		}
		resp["action_errors"] = errs
	}
	return resp
}

// maybeAutosave checkpoints the engine every s.autosaveInterval ticks, per
// config.Engine.SaveInterval. A save failure is logged, not fatal: the tick
// response the caller is waiting on has already succeeded.
func (s *Session) maybeAutosave(ctx context.Context, tick int64) {
	if s.autosaveInterval <= 0 || s.autosavePath == "" || tick%s.autosaveInterval != 0 {
		return
	}
	if err := s.engine.Save(ctx, s.autosavePath); err != nil {
		log.Warn("session %s: autosave at tick %d failed: %v", s.id, tick, err)
	}
}

func (s *Session) handleStatus() interface{} {
	st := s.engine.Status()
	return map[string]interface{}{
		"ok": true, "seed": st.Seed, "tick": st.Tick,
		"active_probes": st.ActiveProbes, "total_probes": st.TotalProbes,
		"systems_visited": st.SystemsVisited,
	}
}

func (s *Session) handleMetrics() interface{} {
	return map[string]interface{}{"ok": true, "history": s.engine.Metrics()}
}

func (s *Session) handleInject(req request) interface{} {
	if req.Event == nil {
		return errorResponse(newErr(KindInvalidArgument, "missing event"))
	}
	ev := models.InjectedEvent{
		Type: models.EventType(req.Event.Type), Subtype: req.Event.Subtype,
		Severity: req.Event.Severity, Description: req.Event.Description,
		Pending: req.Event.Pending,
	}
	if req.Event.TargetProbeID != "" {
		id, err := models.ParseUID(req.Event.TargetProbeID)
		if err != nil {
			return errorResponse(newErr(KindInvalidArgument, "target_probe_id: %v", err))
		}
		ev.TargetProbeID = id
	}
	queued := s.engine.Inject(ev)
	return map[string]interface{}{"ok": true, "queued": queued}
}

func (s *Session) handleSnapshot(req request) interface{} {
	if req.Tag == "" {
		return errorResponse(newErr(KindInvalidArgument, "missing tag"))
	}
	tick := s.engine.TakeSnapshot(req.Tag)
	return map[string]interface{}{"ok": true, "snapshot": req.Tag, "tick": tick}
}

func (s *Session) handleRestore(req request) interface{} {
	if req.Tag == "" {
		return errorResponse(newErr(KindInvalidArgument, "missing tag"))
	}
	tick, err := s.engine.Restore(req.Tag)
	if err != nil {
		return errorResponse(newErr(KindNotFound, "%v", err))
	}
	return map[string]interface{}{"ok": true, "restored": req.Tag, "tick": tick}
}

func (s *Session) handleConfig(req request) interface{} {
	if len(req.Config) == 0 {
		return errorResponse(newErr(KindInvalidArgument, "missing config"))
	}
	if err := s.engine.ApplyConfig(req.Config); err != nil {
		return errorResponse(newErr(KindCapacity, "%v", err))
	}
	return map[string]interface{}{"ok": true}
}

func (s *Session) handleSave(ctx context.Context, req request) interface{} {
	if req.Path == "" {
		return errorResponse(newErr(KindInvalidArgument, "missing path"))
	}
	if err := s.engine.Save(ctx, req.Path); err != nil {
		return errorResponse(newErr(KindIO, "%v", err))
	}
	return map[string]interface{}{"ok": true}
}

func (s *Session) handleLoad(ctx context.Context, req request) interface{} {
	if req.Path == "" {
		return errorResponse(newErr(KindInvalidArgument, "missing path"))
	}
	if err := s.engine.Load(ctx, req.Path); err != nil {
		return errorResponse(newErr(KindIO, "%v", err))
	}
	return map[string]interface{}{"ok": true}
}

func (s *Session) handleScan(req request) interface{} {
	if req.Sector == nil {
		return errorResponse(newErr(KindInvalidArgument, "missing sector"))
	}
	sector := models.Sector{X: req.Sector[0], Y: req.Sector[1], Z: req.Sector[2]}
	systems, err := s.engine.Scan(sector)
	if err != nil {
		return errorResponse(newErr(KindNotFound, "%v", err))
	}
	return map[string]interface{}{"ok": true, "systems": systems}
}

func (s *Session) handleFork(req request) interface{} {
	if req.Tag == "" {
		return errorResponse(newErr(KindInvalidArgument, "missing tag"))
	}
	tick, err := s.engine.Fork(req.Tag, req.NewSeed)
	if err != nil {
		return errorResponse(newErr(KindNotFound, "%v", err))
	}
	return map[string]interface{}{"ok": true, "forked_seed": req.NewSeed, "tick": tick}
}

func (s *Session) handleLineage() interface{} {
	return map[string]interface{}{"ok": true, "lineage": s.engine.Lineage()}
}

func (s *Session) handleHistory(req request) interface{} {
	return map[string]interface{}{"ok": true, "events": s.engine.History(req.FromTick, req.ToTick)}
}
