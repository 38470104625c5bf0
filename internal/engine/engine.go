// File: internal/engine/engine.go
// Project: UNIVERSE
// Description: The root simulation object tying every subsystem together
//              and driving the fixed per-tick execution order. Grounded on
//              the teacher's GameServer: one struct holding every manager
//              the protocol layer needs, constructed once and threaded
//              through a single-threaded tick loop rather than the
//              teacher's mutex-guarded, goroutine-per-session server.
package engine

import (
	"context"
	"sort"

	"github.com/JoshuaAFerguson/universe/internal/actuator"
	"github.com/JoshuaAFerguson/universe/internal/comms"
	"github.com/JoshuaAFerguson/universe/internal/config"
	"github.com/JoshuaAFerguson/universe/internal/events"
	"github.com/JoshuaAFerguson/universe/internal/generator"
	"github.com/JoshuaAFerguson/universe/internal/logger"
	"github.com/JoshuaAFerguson/universe/internal/models"
	"github.com/JoshuaAFerguson/universe/internal/persistence"
	"github.com/JoshuaAFerguson/universe/internal/personality"
	"github.com/JoshuaAFerguson/universe/internal/prng"
	"github.com/JoshuaAFerguson/universe/internal/protocol"
	"github.com/JoshuaAFerguson/universe/internal/replication"
	"github.com/JoshuaAFerguson/universe/internal/scenario"
	"github.com/JoshuaAFerguson/universe/internal/society"
	"github.com/JoshuaAFerguson/universe/internal/travel"
)

var log = logger.WithComponent("Engine")

const (
	metricsSampleInterval = 100
	maxHeldSnapshots      = 8
)

// Engine is the complete, single-threaded simulation: galaxy, probe
// roster, and every cooperative subsystem manager.
type Engine struct {
	Universe *models.Universe
	Rng      *prng.Stream

	Comms    *comms.Manager
	Society  *society.Manager
	EventLog *events.Manager
	Scenario *scenario.Manager

	Lineage []models.LineageEntry

	GenConfig generator.Config
	cfg       config.Engine
	params    actuator.Params

	sectors   map[models.Sector][]models.System
	systemsByID map[models.UID]*models.System

	store persistence.Store
}

// New constructs a fresh engine from a config, with an empty universe
// seeded per cfg.Seed.
func New(cfg config.Engine, store persistence.Store) *Engine {
	return &Engine{
		Universe:    models.NewUniverse(cfg.Seed),
		Rng:         prng.New(uint64(cfg.Seed)),
		Comms:       comms.NewManager(),
		Society:     society.NewManager(),
		EventLog:    events.NewManager(),
		Scenario:    scenario.NewManager(metricsSampleInterval, maxHeldSnapshots),
		GenConfig:   generator.DefaultConfig(),
		cfg:         cfg,
		params:      paramsFromConfig(cfg),
		sectors:     make(map[models.Sector][]models.System),
		systemsByID: make(map[models.UID]*models.System),
		store:       store,
	}
}

// paramsFromConfig derives every subsystem's tunable Params from cfg, the
// single point where config.Engine's pacing fields actually reach the
// simulation (see DESIGN.md).
func paramsFromConfig(cfg config.Engine) actuator.Params {
	return actuator.Params{
		Travel: travel.Params{
			TicksPerCycle:   cfg.TicksPerCycle,
			FuelBurnKgPerLy: cfg.BaseFuelBurn,
		},
		Replication: replication.Params{
			BaseTicks:     cfg.ReplicationBaseTicks,
			ThresholdKg:   cfg.ReplicationThresholdKg,
			ForkMilestone: cfg.ReplicationForkMilestone,
		},
		Comms: comms.Params{
			BaseRangeLy: cfg.CommRangeLy,
		},
	}
}

// ensureSector lazily generates (or loads, if a store is attached and the
// sector was saved previously) every system in coord and caches it.
func (e *Engine) ensureSector(ctx context.Context, coord models.Sector) []models.System {
	if systems, ok := e.sectors[coord]; ok {
		return systems
	}

	var systems []models.System
	if e.store != nil {
		if loaded, err := e.store.LoadSector(ctx, coord); err == nil && len(loaded) > 0 {
			systems = loaded
		}
	}
	if systems == nil {
		systems = generator.GenerateSector(e.Universe.Seed, coord, e.GenConfig)
		if e.store != nil {
			if err := e.store.SaveSector(ctx, coord, e.Universe.Tick, systems); err != nil {
				log.Warn("save generated sector %v: %v", coord, err)
			}
		}
	}

	e.sectors[coord] = systems
	for i := range e.sectors[coord] {
		e.systemsByID[e.sectors[coord][i].ID] = &e.sectors[coord][i]
	}
	return systems
}

func (e *Engine) systemOf(p *models.Probe) *models.System {
	if p.LocationKind == models.LocationInterstellar {
		return nil
	}
	return e.systemsByID[p.SystemID]
}

// originPos resolves a probe or a system's current galactic position,
// satisfying actuator.Context.OriginPos and travel-target resolution.
func (e *Engine) originPos(id models.UID) models.Vec3 {
	if p, ok := e.Universe.Probes[id]; ok {
		if p.LocationKind == models.LocationInterstellar {
			return p.Heading
		}
		if sys := e.systemsByID[p.SystemID]; sys != nil {
			return sys.Position
		}
		return p.Heading
	}
	if sys, ok := e.systemsByID[id]; ok {
		return sys.Position
	}
	return models.Vec3{}
}

func (e *Engine) newChildID() models.UID {
	hi, lo := prng.GenerateUID(e.Rng)
	return models.UID{Hi: hi, Lo: lo}
}

// Seed reports the master seed.
func (e *Engine) Seed() int64 { return e.Universe.Seed }

// CurrentTick reports the current tick number.
func (e *Engine) CurrentTick() int64 { return e.Universe.Tick }

// Tick executes one full simulation step in the fixed order: actions,
// clock advance, travel, replication, delivery, construction, voting,
// research, trespass, hazards, organic events, injections, metrics.
func (e *Engine) Tick(ctx context.Context, actions map[models.UID]actuator.Action) (*protocol.TickResult, error) {
	u := e.Universe
	actionErrors := make(map[models.UID]string)

	// 1. Execute actions.
	for id, action := range actions {
		probe, ok := u.Probes[id]
		if !ok || probe.Status == models.StatusDestroyed {
			continue
		}
		ensureProbeSector(e, ctx, probe)
		actx := &actuator.Context{
			Tick: u.Tick, Seed: u.Seed, Rng: e.Rng,
			System: e.systemOf(probe), OriginPos: e.originPos,
			AllProbes: u.Probes, Comms: e.Comms, Society: e.Society,
			Lineage: &e.Lineage, NewChildID: e.newChildID,
			Params: e.params,
		}
		result := actuator.Execute(actx, probe, action)
		if !result.Success {
			actionErrors[id] = result.Error
		}
	}

	// 2. Advance clock.
	u.Tick++
	tick := u.Tick

	// 3. Travel.
	for _, p := range u.Probes {
		if p.Status != models.StatusTraveling {
			continue
		}
		if travel.Step(p, e.Rng, e.params.Travel).Arrived {
			u.MarkVisited(p.SystemID)
		}
	}

	// 4. Replication completions.
	for _, p := range u.Probes {
		if !p.Replication.Active {
			continue
		}
		res := replication.Step(p, e.params.Replication)
		if res.Completed {
			child, entry := replication.Finalize(p, e.newChildID(), tick, e.Rng)
			u.Probes[child.ID] = child
			e.Lineage = append(e.Lineage, entry)
			e.Scenario.RecordSpawn()
		}
	}

	// 5. Deliver messages/trades.
	comms.DeliverDueMessages(e.Comms, tick)
	e.Society.DeliverDueTrades(tick, u.Probes)

	// 6. Complete builds.
	for _, c := range e.Society.Constructions {
		if c.Complete {
			continue
		}
		if e.Society.StepConstruction(c) {
			u.StructuresBuilt++
			var builders []*models.Probe
			for _, bid := range c.Builders {
				if bp, ok := u.Probes[bid]; ok {
					builders = append(builders, bp)
					bp.Status = models.StatusActive
				}
			}
			society.AwardConstructionTrust(builders)
			if c.Type == models.StructureRelay {
				if len(builders) > 0 {
					sys := e.systemsByID[c.SystemID]
					pos := models.Vec3{}
					if sys != nil {
						pos = sys.Position
					}
					e.Comms.RegisterRelay(&models.Relay{
						ID: c.ID, OwnerID: builders[0].ID, Position: pos,
						SystemID: c.SystemID, RangeLy: 20.0,
					})
				}
			}
		}
	}

	// 7. Resolve votes.
	for _, p := range e.Society.ResolveDue(tick) {
		if p.Passed {
			society.ApplyPoliticalDisagreement(p, u.Probes)
		}
	}

	// 8. Advance research.
	for _, p := range u.Probes {
		if !p.ResearchActive {
			continue
		}
		budget := e.Society.ResearchTickBudget(p.ID, p.ResearchDomain, researchBaseTicks)
		p.ResearchTicks++
		if p.ResearchTicks >= budget {
			p.Capabilities.TechLevels[p.ResearchDomain]++
			p.Capabilities.RecomputeRates()
			p.ResearchActive = false
			p.ResearchTicks = 0
		}
	}

	// 9. Territory trespass.
	for _, p := range u.Probes {
		if p.LocationKind == models.LocationInterstellar {
			continue
		}
		e.Society.CheckTrespass(p, p.SystemID, u.Probes)
	}

	// 10. Apply pending hazards.
	hazardEvents := e.EventLog.ApplyPendingHazards(tick, u.Probes)

	// 11. Roll new organic events.
	tickEventCounts := make(map[models.EventType]int64)
	for _, hev := range hazardEvents {
		tickEventCounts[hev.Type]++
	}
	for _, p := range u.Probes {
		if p.Status == models.StatusDestroyed || p.LocationKind == models.LocationInterstellar {
			continue
		}
		sys := e.systemOf(p)
		fired := e.EventLog.RollForProbe(e.Rng, u.Seed, tick, p, sys)
		for _, ev := range fired {
			tickEventCounts[ev.Type]++
		}
	}

	// 12. Flush injections, after the organic roll.
	injected := e.Scenario.Flush(tick, e.EventLog, activeProbeSlice(u))
	for _, ev := range injected {
		tickEventCounts[ev.Type]++
	}

	for _, p := range u.Probes {
		personality.TickFading(p)
	}

	// 13. Record metrics.
	if e.Scenario.ShouldSample(tick) {
		e.Scenario.Sample(tick, u, tickEventCounts)
	}

	// 14. Emit observation snapshot.
	views := e.buildViews()
	return &protocol.TickResult{Tick: tick, Views: views, ActionErrors: actionErrors}, nil
}

const researchBaseTicks = 300

func ensureProbeSector(e *Engine, ctx context.Context, p *models.Probe) {
	if p.LocationKind == models.LocationInterstellar {
		return
	}
	e.ensureSector(ctx, p.Sector)
}

func activeProbeSlice(u *models.Universe) []*models.Probe {
	out := make([]*models.Probe, 0, len(u.Probes))
	for _, p := range u.Probes {
		if p.Status != models.StatusDestroyed {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}
