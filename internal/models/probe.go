// File: internal/models/probe.go
// Project: UNIVERSE
// Description: Probe identity, position, resources, capabilities, personality,
//              character, autobiographical memory, and relationships.
package models

// Vec3 is a 3-vector of light-years, used for heading/destination.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns a-b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Sector is an integer 3-triple naming a cubical galaxy region.
type Sector struct {
	X, Y, Z int
}

const (
	MaxQuirks        = 12
	MaxCatchphrases  = 8
	MaxValues        = 8
	MaxEarthMemories = 6
	MaxMemories      = 64
	MaxGoals         = 8
	MaxRelationships = 256
)

// EarthMemory is a bounded, fidelity-attenuated memory of Earth.
type EarthMemory struct {
	Text     string  `json:"text"`
	Fidelity float64 `json:"fidelity"` // [0,1]
}

// Memory is an autobiographical event record with fading vividness.
type Memory struct {
	Tick            int64   `json:"tick"`
	Text            string  `json:"text"`
	EmotionalWeight float64 `json:"emotional_weight"` // [-1,1]
	Fading          float64 `json:"fading"`           // [0,1], 0=vivid
}

// Relationship tracks trust with another probe.
type Relationship struct {
	OtherID     UID         `json:"other_id"`
	Trust       float64     `json:"trust"` // [-1,1]
	Disposition Disposition `json:"disposition"`
}

// Personality holds the eleven trait fields, all in [-1,1] except DriftRate.
type Personality struct {
	Curiosity           float64 `json:"curiosity"`
	Caution             float64 `json:"caution"`
	Sociability         float64 `json:"sociability"`
	Humor               float64 `json:"humor"`
	Empathy             float64 `json:"empathy"`
	Ambition            float64 `json:"ambition"`
	Creativity          float64 `json:"creativity"`
	Stubbornness        float64 `json:"stubbornness"`
	ExistentialAngst    float64 `json:"existential_angst"`
	NostalgiaForEarth   float64 `json:"nostalgia_for_earth"`
	DriftRate           float64 `json:"drift_rate"` // > 0
}

// Clamp normalizes every trait into its declared range.
func (p *Personality) Clamp() {
	p.Curiosity = Clamp(p.Curiosity, -1, 1)
	p.Caution = Clamp(p.Caution, -1, 1)
	p.Sociability = Clamp(p.Sociability, -1, 1)
	p.Humor = Clamp(p.Humor, -1, 1)
	p.Empathy = Clamp(p.Empathy, -1, 1)
	p.Ambition = Clamp(p.Ambition, -1, 1)
	p.Creativity = Clamp(p.Creativity, -1, 1)
	p.Stubbornness = Clamp(p.Stubbornness, -1, 1)
	p.ExistentialAngst = Clamp(p.ExistentialAngst, -1, 1)
	p.NostalgiaForEarth = Clamp(p.NostalgiaForEarth, -1, 1)
	if p.DriftRate < 0.05 {
		p.DriftRate = 0.05
	}
}

// Character holds the bounded lists of personal-identity strings.
type Character struct {
	Quirks        []string      `json:"quirks"`
	Catchphrases  []string      `json:"catchphrases"`
	Values        []string      `json:"values"`
	EarthMemories []EarthMemory `json:"earth_memories"`
}

// Capabilities holds tech levels and the rates derived from them.
type Capabilities struct {
	TechLevels [TechDomainCount]int `json:"tech_levels"` // 0-255

	// Derived, recomputed by RecomputeRates whenever a level changes.
	MiningRate      float64 `json:"mining_rate"`
	SensorRangeLy   float64 `json:"sensor_range_ly"`
	MaxSpeedC       float64 `json:"max_speed_c"`
	ComputeCapacity float64 `json:"compute_capacity"`
}

// RecomputeRates derives rates from tech levels. Monotone increasing in
// each relevant domain; called after every tech level change.
func (c *Capabilities) RecomputeRates() {
	mining := float64(c.TechLevels[TechMining])
	propulsion := float64(c.TechLevels[TechPropulsion])
	sensors := float64(c.TechLevels[TechSensors])
	computing := float64(c.TechLevels[TechComputing])

	c.MiningRate = 1.0 + mining*0.05
	c.SensorRangeLy = 10.0 + sensors*2.0
	c.MaxSpeedC = 0.05 + propulsion*0.002
	if c.MaxSpeedC > 0.9 {
		c.MaxSpeedC = 0.9
	}
	c.ComputeCapacity = 1.0 + computing*0.1
}

// Goal is a freeform autobiographical ambition string with a completion flag.
type Goal struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// SurveyState is the per-probe, per-planet survey progress (see design note:
// the reference engine used a single static in-actuator variable; here it
// is attached to the probe so concurrent surveys by different probes never
// collide).
type SurveyState struct {
	PlanetID    UID     `json:"planet_id"`
	Level       int     `json:"level"`
	TicksDone   int     `json:"ticks_done"`
	Discoverer  UID     `json:"discoverer"`
}

// ReplicationState tracks an in-progress self-replication.
type ReplicationState struct {
	Active              bool    `json:"active"`
	Progress            float64 `json:"progress"` // [0,1]
	Elapsed             int     `json:"elapsed"`
	Total               int     `json:"total"`
	ConsciousnessForked bool    `json:"consciousness_forked"`
}

// Probe is the full mutable state of one self-replicating probe.
type Probe struct {
	ID         UID    `json:"id"`
	ParentID   UID    `json:"parent_id"`
	Generation int    `json:"generation"`
	Name       string `json:"name"`
	CreatedTick int64 `json:"created_tick"`
	Status     ProbeStatus `json:"status"`

	// Position
	Sector       Sector       `json:"sector"`
	SystemID     UID          `json:"system_id"`
	BodyID       UID          `json:"body_id"`
	LocationKind LocationKind `json:"location_kind"`

	// Motion
	SpeedC             float64 `json:"speed_c"`
	Heading            Vec3    `json:"heading"`
	Destination        Vec3    `json:"destination"`
	TravelRemainingLy  float64 `json:"travel_remaining_ly"`
	DestSystemID       UID     `json:"dest_system_id"`
	DestSector         Sector  `json:"dest_sector"`

	// Resources
	Resources     [ResourceCount]float64 `json:"resources"`
	EnergyJoules  float64                `json:"energy_joules"`
	FuelKg        float64                `json:"fuel_kg"`
	MassKg        float64                `json:"mass_kg"`
	HullIntegrity float64                `json:"hull_integrity"` // [0,1]

	Capabilities Capabilities `json:"capabilities"`
	Personality  Personality  `json:"personality"`
	Character    Character    `json:"character"`

	Memories      []Memory              `json:"memories"`
	Goals         []Goal                `json:"goals"`
	Relationships map[UID]*Relationship `json:"-"`

	Surveys      map[UID]*SurveyState `json:"-"` // by planet id
	Replication  ReplicationState     `json:"replication"`

	RecentEvents []string `json:"-"` // most recent event descriptions, newest first

	// Research in progress, if any: domain + accumulated ticks.
	ResearchDomain TechDomain `json:"research_domain"`
	ResearchActive bool       `json:"research_active"`
	ResearchTicks  int        `json:"research_ticks"`
}

// NewProbe constructs a fresh probe with zeroed/default bounded collections.
func NewProbe(id UID, name string) *Probe {
	p := &Probe{
		ID:            id,
		Name:          name,
		Status:        StatusActive,
		LocationKind:  LocationInSystem,
		HullIntegrity: 1.0,
		Relationships: make(map[UID]*Relationship),
		Surveys:       make(map[UID]*SurveyState),
	}
	return p
}

// ClampAll re-normalizes every bounded field. Called after any mutation path
// that touches trait/hull/fidelity/fading values.
func (p *Probe) ClampAll() {
	p.Personality.Clamp()
	p.HullIntegrity = Clamp(p.HullIntegrity, 0, 1)
	for i := range p.Character.EarthMemories {
		p.Character.EarthMemories[i].Fidelity = Clamp(p.Character.EarthMemories[i].Fidelity, 0, 1)
	}
	for i := range p.Memories {
		p.Memories[i].Fading = Clamp(p.Memories[i].Fading, 0, 1)
		p.Memories[i].EmotionalWeight = Clamp(p.Memories[i].EmotionalWeight, -1, 1)
	}
	for _, r := range p.Relationships {
		r.Trust = Clamp(r.Trust, -1, 1)
		r.Disposition = DispositionForTrust(r.Trust)
	}
	for i := range p.Resources {
		if p.Resources[i] < 0 {
			p.Resources[i] = 0
		}
	}
	if p.FuelKg < 0 {
		p.FuelKg = 0
	}
	if p.EnergyJoules < 0 {
		p.EnergyJoules = 0
	}
}

// AddMemory inserts a memory, evicting the most-faded entry if the ring is
// full. The eviction is explicit, never a silent drop (design note: the
// reference's lineage_tree silently dropped entries at capacity; here and
// throughout bounded collections evict deterministically instead).
func (p *Probe) AddMemory(m Memory) {
	m.Fading = Clamp(m.Fading, 0, 1)
	m.EmotionalWeight = Clamp(m.EmotionalWeight, -1, 1)
	if len(p.Memories) < MaxMemories {
		p.Memories = append(p.Memories, m)
		return
	}
	worst := 0
	for i := 1; i < len(p.Memories); i++ {
		if p.Memories[i].Fading > p.Memories[worst].Fading {
			worst = i
		}
	}
	p.Memories[worst] = m
}

// TickFading advances every memory's fading by the spec's per-tick rate.
func (p *Probe) TickFading() {
	for i := range p.Memories {
		m := &p.Memories[i]
		m.Fading = Clamp(m.Fading+0.001*(1-m.EmotionalWeight*0.5), 0, 1)
	}
}

// MostVivid returns the index of the least-faded memory, or -1 if none.
func (p *Probe) MostVivid() int {
	if len(p.Memories) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(p.Memories); i++ {
		if p.Memories[i].Fading < p.Memories[best].Fading {
			best = i
		}
	}
	return best
}

// VividCount counts memories with fading below threshold.
func (p *Probe) VividCount(threshold float64) int {
	n := 0
	for _, m := range p.Memories {
		if m.Fading < threshold {
			n++
		}
	}
	return n
}

// AddRecentEvent keeps the last 5 event descriptions, newest first.
func (p *Probe) AddRecentEvent(desc string) {
	p.RecentEvents = append([]string{desc}, p.RecentEvents...)
	if len(p.RecentEvents) > 5 {
		p.RecentEvents = p.RecentEvents[:5]
	}
}

// RelationshipWith returns (creating if absent) the relationship with other.
func (p *Probe) RelationshipWith(other UID) *Relationship {
	if p.Relationships == nil {
		p.Relationships = make(map[UID]*Relationship)
	}
	r, ok := p.Relationships[other]
	if !ok {
		r = &Relationship{OtherID: other, Trust: 0, Disposition: DispositionForTrust(0)}
		p.Relationships[other] = r
	}
	return r
}

// AdjustTrust changes trust by delta, clamped, and refreshes disposition.
func (r *Relationship) AdjustTrust(delta float64) {
	r.Trust = Clamp(r.Trust+delta, -1, 1)
	r.Disposition = DispositionForTrust(r.Trust)
}
