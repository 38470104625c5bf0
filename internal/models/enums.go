// File: internal/models/enums.go
// Project: UNIVERSE
// Description: String-backed enums shared across the data model
package models

// Resource indexes the nine tracked resource stocks.
type Resource int

const (
	ResourceIron Resource = iota
	ResourceSilicon
	ResourceRareEarth
	ResourceWater
	ResourceHydrogen
	ResourceHelium3
	ResourceCarbon
	ResourceUranium
	ResourceExotic
	ResourceCount
)

var resourceNames = [ResourceCount]string{
	"iron", "silicon", "rare_earth", "water", "hydrogen",
	"helium3", "carbon", "uranium", "exotic",
}

func (r Resource) String() string {
	if r < 0 || int(r) >= int(ResourceCount) {
		return "unknown"
	}
	return resourceNames[r]
}

// TechDomain indexes the ten tech-domain levels a probe carries.
type TechDomain int

const (
	TechPropulsion TechDomain = iota
	TechMining
	TechMaterials
	TechEnergy
	TechSensors
	TechCommunication
	TechComputing
	TechReplication
	TechWeapons
	TechSocial
	TechDomainCount
)

var techDomainNames = [TechDomainCount]string{
	"propulsion", "mining", "materials", "energy", "sensors",
	"communication", "computing", "replication", "weapons", "social",
}

func (d TechDomain) String() string {
	if d < 0 || int(d) >= int(TechDomainCount) {
		return "unknown"
	}
	return techDomainNames[d]
}

// LocationKind is where, structurally, a probe currently is.
type LocationKind string

const (
	LocationInterstellar LocationKind = "interstellar"
	LocationInSystem     LocationKind = "in_system"
	LocationOrbiting     LocationKind = "orbiting"
	LocationLanded       LocationKind = "landed"
	LocationDocked       LocationKind = "docked"
)

// ProbeStatus is the coarse lifecycle state of a probe.
type ProbeStatus string

const (
	StatusActive      ProbeStatus = "active"
	StatusTraveling    ProbeStatus = "traveling"
	StatusMining       ProbeStatus = "mining"
	StatusBuilding     ProbeStatus = "building"
	StatusReplicating  ProbeStatus = "replicating"
	StatusDormant      ProbeStatus = "dormant"
	StatusDamaged      ProbeStatus = "damaged"
	StatusDestroyed    ProbeStatus = "destroyed"
)

// SpectralClass is a star's Morgan-Keenan-ish classification.
type SpectralClass string

const (
	SpectralO          SpectralClass = "O"
	SpectralB          SpectralClass = "B"
	SpectralA          SpectralClass = "A"
	SpectralF          SpectralClass = "F"
	SpectralG          SpectralClass = "G"
	SpectralK          SpectralClass = "K"
	SpectralM          SpectralClass = "M"
	SpectralWhiteDwarf SpectralClass = "white_dwarf"
	SpectralNeutron    SpectralClass = "neutron"
	SpectralBlackHole  SpectralClass = "black_hole"
)

// PlanetType is the broad physical classification of a planet.
type PlanetType string

const (
	PlanetGasGiant   PlanetType = "gas_giant"
	PlanetIceGiant   PlanetType = "ice_giant"
	PlanetRocky      PlanetType = "rocky"
	PlanetSuperEarth PlanetType = "super_earth"
	PlanetOcean      PlanetType = "ocean"
	PlanetLava       PlanetType = "lava"
	PlanetDesert     PlanetType = "desert"
	PlanetIce        PlanetType = "ice"
	PlanetCarbon     PlanetType = "carbon"
	PlanetIron       PlanetType = "iron"
	PlanetRogue      PlanetType = "rogue"
)

// IsGiant reports whether landing on this planet type is forbidden.
func (t PlanetType) IsGiant() bool {
	return t == PlanetGasGiant || t == PlanetIceGiant
}

// ArtifactType classifies an alien artifact found on a planet.
type ArtifactType string

const (
	ArtifactTechBoost     ArtifactType = "tech_boost"
	ArtifactResourceCache ArtifactType = "resource_cache"
	ArtifactStarMap       ArtifactType = "star_map"
	ArtifactCommAmplifier ArtifactType = "comm_amplifier"
)

// Disposition is the qualitative bucket trust falls into.
type Disposition string

const (
	DispositionAllied   Disposition = "allied"
	DispositionFriendly Disposition = "friendly"
	DispositionNeutral  Disposition = "neutral"
	DispositionWary     Disposition = "wary"
	DispositionHostile  Disposition = "hostile"
)

// DispositionForTrust maps a trust value in [-1,1] to its disposition
// bucket: >0.5 allied, (0.2,0.5] friendly, (-0.2,0.2] neutral, (-0.5,-0.2]
// wary, <=-0.5 hostile.
func DispositionForTrust(trust float64) Disposition {
	switch {
	case trust > 0.5:
		return DispositionAllied
	case trust > 0.2:
		return DispositionFriendly
	case trust > -0.2:
		return DispositionNeutral
	case trust > -0.5:
		return DispositionWary
	default:
		return DispositionHostile
	}
}

// CivilizationType classifies an alien civilization's developmental stage.
type CivilizationType string

const (
	CivMicrobial    CivilizationType = "microbial"
	CivMulticellular CivilizationType = "multicellular"
	CivSapient      CivilizationType = "sapient"
	CivIndustrial   CivilizationType = "industrial"
	CivSpacefaring  CivilizationType = "spacefaring"
	CivTranscended  CivilizationType = "transcended"
)

// CivilizationState is the current trajectory of a civilization.
type CivilizationState string

const (
	CivThriving   CivilizationState = "thriving"
	CivDeclining  CivilizationState = "declining"
	CivEndangered CivilizationState = "endangered"
	CivExtinct    CivilizationState = "extinct"
	CivAscending  CivilizationState = "ascending"
)

// MessageStatus is the lifecycle of an in-transit message or trade.
type MessageStatus string

const (
	MessagePending   MessageStatus = "pending"
	MessageInTransit MessageStatus = "in_transit"
	MessageDelivered MessageStatus = "delivered"
	MessageCancelled MessageStatus = "cancelled"
)

// EventType is the top-level stochastic event category.
type EventType string

const (
	EventDiscovery EventType = "discovery"
	EventAnomaly   EventType = "anomaly"
	EventHazard    EventType = "hazard"
	EventEncounter EventType = "encounter"
	EventCrisis    EventType = "crisis"
	EventWonder    EventType = "wonder"
)

// Clamp returns v clamped to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
