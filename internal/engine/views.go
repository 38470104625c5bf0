// File: internal/engine/views.go
// Project: UNIVERSE
// Description: Per-probe observation assembly and the remaining
//              protocol.Engine methods (status, metrics, injection,
//              snapshot/restore/fork, config, persistence, scan,
//              lineage/history). Split from engine.go the way the teacher
//              splits server.go from its repository-query helpers.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/JoshuaAFerguson/universe/internal/models"
	"github.com/JoshuaAFerguson/universe/internal/persistence"
	"github.com/JoshuaAFerguson/universe/internal/prng"
	"github.com/JoshuaAFerguson/universe/internal/protocol"
	"github.com/JoshuaAFerguson/universe/internal/scenario"
)

// buildViews assembles one ProbeView per active probe, gathering sensor
// contacts, inbox, visible beacons/structures, trades, claims, proposals,
// trust list, and pending hazards.
func (e *Engine) buildViews() []protocol.ProbeView {
	u := e.Universe
	active := activeProbeSlice(u)

	views := make([]protocol.ProbeView, 0, len(active))
	for _, p := range active {
		sys := e.systemOf(p)
		views = append(views, protocol.ProbeView{
			Probe:             p,
			System:            sys,
			Nearby:            e.nearbyProbes(p, active),
			Inbox:             dereferenceMessages(e.Comms.Inbox(p.ID)),
			VisibleBeacons:    dereferenceBeacons(beaconsFor(e, sys)),
			VisibleStructures: e.structuresInSystem(sys),
			PendingTrades:     e.tradesFor(p.ID),
			ClaimedBy:         e.claimFor(sys),
			ActiveProposals:   e.unresolvedProposals(),
			TrustList:         relationshipList(p),
			PendingHazards:    hazardsFor(e.EventLog.Pending, p.ID, u.Tick),
			ActiveRelays:      e.relaysNear(p),
		})
	}
	return views
}

func (e *Engine) nearbyProbes(p *models.Probe, active []*models.Probe) []protocol.NearbyProbe {
	sensorRange := p.Capabilities.SensorRangeLy
	origin := e.originPos(p.ID)

	var out []protocol.NearbyProbe
	for _, other := range active {
		if other.ID == p.ID {
			continue
		}
		pos := e.originPos(other.ID)
		d := pos.Sub(origin)
		dist := vecLen(d)
		if dist > sensorRange {
			continue
		}
		out = append(out, protocol.NearbyProbe{ProbeID: other.ID, Name: other.Name, DistanceLy: dist})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceLy < out[j].DistanceLy })
	return out
}

func vecLen(v models.Vec3) float64 {
	return sqrtf(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func sqrtf(x float64) float64 {
	if x <= 0 {
		return 0
	}
	// Newton's method avoids importing math solely for this one call site;
	// the accuracy needed here is a sensor-range comparison, not physics.
	z := x
	for i := 0; i < 12; i++ {
		z -= (z*z - x) / (2 * z)
	}
	return z
}

func dereferenceMessages(in []*models.Message) []models.Message {
	out := make([]models.Message, 0, len(in))
	for _, m := range in {
		out = append(out, *m)
	}
	return out
}

func dereferenceBeacons(in []*models.Beacon) []models.Beacon {
	out := make([]models.Beacon, 0, len(in))
	for _, b := range in {
		out = append(out, *b)
	}
	return out
}

func beaconsFor(e *Engine, sys *models.System) []*models.Beacon {
	if sys == nil {
		return nil
	}
	return e.Comms.BeaconsInSystem(sys.ID)
}

func (e *Engine) structuresInSystem(sys *models.System) []models.Construction {
	if sys == nil {
		return nil
	}
	var out []models.Construction
	for _, c := range e.Society.Constructions {
		if c.SystemID == sys.ID {
			out = append(out, *c)
		}
	}
	return out
}

func (e *Engine) tradesFor(probeID models.UID) []models.Trade {
	var out []models.Trade
	for _, t := range e.Society.Trades {
		if t.TargetID == probeID && t.Status != models.MessageDelivered {
			out = append(out, *t)
		}
	}
	return out
}

func (e *Engine) claimFor(sys *models.System) models.UID {
	if sys == nil {
		return models.ZeroUID
	}
	return e.Society.Claims[sys.ID]
}

func (e *Engine) unresolvedProposals() []models.Proposal {
	var out []models.Proposal
	for _, p := range e.Society.Proposals {
		if !p.Resolved {
			out = append(out, *p)
		}
	}
	return out
}

func relationshipList(p *models.Probe) []models.Relationship {
	out := make([]models.Relationship, 0, len(p.Relationships))
	for _, r := range p.Relationships {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OtherID.Hex() < out[j].OtherID.Hex() })
	return out
}

func hazardsFor(pending []models.PendingHazard, probeID models.UID, tick int64) []models.PendingHazard {
	var out []models.PendingHazard
	for _, h := range pending {
		if h.ProbeID != probeID {
			continue
		}
		out = append(out, h)
	}
	return out
}

func (e *Engine) relaysNear(p *models.Probe) []models.Relay {
	sys := e.systemOf(p)
	if sys == nil {
		return nil
	}
	origin := sys.Position
	var out []models.Relay
	for _, r := range e.Comms.Relays {
		if vecLen(r.Position.Sub(origin)) <= r.RangeLy {
			rv := *r
			rv.RelayLoad = e.Comms.RelayLoad(r.ID)
			out = append(out, rv)
		}
	}
	return out
}

// Status reports the coarse universe snapshot for the "status" command.
func (e *Engine) Status() protocol.StatusView {
	u := e.Universe
	return protocol.StatusView{
		Seed: u.Seed, Tick: u.Tick,
		ActiveProbes: len(u.ActiveProbes()), TotalProbes: len(u.Probes),
		SystemsVisited: len(u.VisitedSystems),
	}
}

// Metrics returns the sampled metrics history.
func (e *Engine) Metrics() []scenario.MetricsSnapshot { return e.Scenario.MetricsHistory }

// Inject enqueues an operator-supplied event for the next tick's flush and
// returns the queue length.
func (e *Engine) Inject(ev models.InjectedEvent) int {
	e.Scenario.Enqueue(ev)
	return len(e.Scenario.InjectionQueue)
}

// TakeSnapshot captures the current universe state under tag.
func (e *Engine) TakeSnapshot(tag string) int64 {
	snap := e.Scenario.TakeSnapshot(tag, e.Universe)
	return snap.Tick
}

// Restore replaces the universe's state with a previously held snapshot
// and realigns the RNG stream to match.
func (e *Engine) Restore(tag string) (int64, error) {
	rng, err := e.Scenario.Restore(tag, e.Universe)
	if err != nil {
		return 0, err
	}
	e.Rng = rng
	return e.Universe.Tick, nil
}

// ApplyConfig parses and applies a flat JSON config override map.
func (e *Engine) ApplyConfig(raw json.RawMessage) error {
	return e.Scenario.ApplyConfigJSON(raw)
}

// Save checkpoints universe metadata, every generated sector, and every
// probe into a fresh SQLite database at path, independent of whatever
// continuous store the engine was constructed with.
func (e *Engine) Save(ctx context.Context, path string) error {
	store, err := persistence.OpenSQLite(path)
	if err != nil {
		return fmt.Errorf("engine: save: %w", err)
	}
	defer store.Close()

	if err := store.SaveMeta(ctx, metaOf(e.Universe)); err != nil {
		return fmt.Errorf("engine: save meta: %w", err)
	}
	for coord, systems := range e.sectors {
		if err := store.SaveSector(ctx, coord, e.Universe.Tick, systems); err != nil {
			return fmt.Errorf("engine: save sector %v: %w", coord, err)
		}
	}
	for _, p := range e.Universe.Probes {
		if err := store.SaveProbe(ctx, p); err != nil {
			return fmt.Errorf("engine: save probe %s: %w", p.ID, err)
		}
	}
	return nil
}

// Load replaces the running universe's metadata with the checkpoint at
// path and reloads from it every probe whose id is already in the running
// roster; probes saved in the checkpoint under other ids are not loaded.
// Sectors reload lazily on first access thereafter.
func (e *Engine) Load(ctx context.Context, path string) error {
	store, err := persistence.OpenSQLite(path)
	if err != nil {
		return fmt.Errorf("engine: load: %w", err)
	}
	defer store.Close()

	meta, ok, err := store.LoadMeta(ctx)
	if err != nil {
		return fmt.Errorf("engine: load meta: %w", err)
	}
	if !ok {
		return fmt.Errorf("engine: no saved universe found at %s", path)
	}

	probes := make(map[models.UID]*models.Probe)
	for id := range e.Universe.Probes {
		if p, err := store.LoadProbe(ctx, id); err == nil {
			probes[p.ID] = p
		}
	}

	e.Universe.Seed = meta.Seed
	e.Universe.Tick = meta.Tick
	e.Universe.GenerationVersion = meta.GenerationVersion
	if len(probes) > 0 {
		e.Universe.Probes = probes
	}
	e.sectors = make(map[models.Sector][]models.System)
	e.systemsByID = make(map[models.UID]*models.System)

	e.Rng = prng.New(uint64(meta.Seed))
	for i := int64(0); i < meta.Tick; i++ {
		e.Rng.NextU64()
	}
	return nil
}

// Scan returns every system in sector, generating it on first access.
func (e *Engine) Scan(sector models.Sector) ([]models.System, error) {
	return e.ensureSector(context.Background(), sector), nil
}

// Fork clones a held snapshot into a fresh, independently evolving
// universe under newSeed, without disturbing the original.
func (e *Engine) Fork(tag string, newSeed int64) (int64, error) {
	forked, rng, err := e.Scenario.Fork(tag, newSeed)
	if err != nil {
		return 0, err
	}
	e.Universe = forked
	e.Rng = rng
	return forked.Tick, nil
}

// Lineage returns the full replication lineage log.
func (e *Engine) Lineage() []models.LineageEntry { return e.Lineage }

// History returns every recorded event with tick in [fromTick, toTick].
func (e *Engine) History(fromTick, toTick int64) []models.SimEvent {
	var out []models.SimEvent
	for _, ev := range e.EventLog.Log {
		if ev.Tick >= fromTick && ev.Tick <= toTick {
			out = append(out, ev)
		}
	}
	return out
}

func metaOf(u *models.Universe) persistence.Meta {
	return persistence.Meta{Seed: u.Seed, Tick: u.Tick, GenerationVersion: u.GenerationVersion}
}
