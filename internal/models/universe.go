// File: internal/models/universe.go
// Project: UNIVERSE
// Description: Top-level universe state: seed, tick clock, probe roster.
package models

// Universe is the root simulation state.
type Universe struct {
	Seed              int64            `json:"seed"`
	Tick              int64            `json:"tick"`
	GenerationVersion int               `json:"generation_version"`
	Running           bool              `json:"running"`

	Probes map[UID]*Probe `json:"-"`

	// VisitedSystems resolves the spec's "sectors-explored metric" Open
	// Question with a precise count (see DESIGN.md) rather than the
	// reference's rough active-probe approximation.
	VisitedSystems map[UID]struct{} `json:"-"`

	// StructuresBuilt counts completed collaborative builds, for metrics.
	StructuresBuilt int64 `json:"structures_built"`
}

// NewUniverse constructs an empty universe for the given seed.
func NewUniverse(seed int64) *Universe {
	return &Universe{
		Seed:              seed,
		GenerationVersion: 1,
		Running:           true,
		Probes:            make(map[UID]*Probe),
		VisitedSystems:    make(map[UID]struct{}),
	}
}

// ActiveProbes returns every probe that has not been destroyed.
func (u *Universe) ActiveProbes() []*Probe {
	out := make([]*Probe, 0, len(u.Probes))
	for _, p := range u.Probes {
		if p.Status != StatusDestroyed {
			out = append(out, p)
		}
	}
	return out
}

// MarkVisited records a system as visited, for the sectors-explored metric.
func (u *Universe) MarkVisited(systemID UID) {
	if u.VisitedSystems == nil {
		u.VisitedSystems = make(map[UID]struct{})
	}
	u.VisitedSystems[systemID] = struct{}{}
}

// LineageEntry is a persistent record of a replication event.
type LineageEntry struct {
	ParentID   UID   `json:"parent_id"`
	ChildID    UID   `json:"child_id"`
	BirthTick  int64 `json:"birth_tick"`
	Generation int   `json:"generation"`
}
