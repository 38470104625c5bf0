// File: internal/models/society.go
// Project: UNIVERSE
// Description: Messaging, beacons, relays, trade, territory, construction,
//              voting, and tech-sharing data shapes shared by the comms and
//              society subsystems.
package models

// Message is a point-to-point or broadcast light-delayed communication.
type Message struct {
	ID         UID           `json:"id"`
	SenderID   UID           `json:"sender_id"`
	TargetID   UID           `json:"target_id"`
	Text       string        `json:"text"`
	SentTick   int64         `json:"sent_tick"`
	ArrivalTick int64        `json:"arrival_tick"`
	Status     MessageStatus `json:"status"`

	// RelayPath names the relays (in hop order) this message routes
	// through, empty for a direct-range delivery. Lets the comms manager
	// attribute in-transit load to individual relays (see Relay.RelayLoad).
	RelayPath []UID `json:"relay_path,omitempty"`
}

// Beacon is a fire-and-forget message anchored to a system.
type Beacon struct {
	ID       UID    `json:"id"`
	SystemID UID    `json:"system_id"`
	AuthorID UID    `json:"author_id"`
	Text     string `json:"text"`
	PlacedTick int64 `json:"placed_tick"`
}

// Relay is a 20-ly-range transceiver built by a Society construction.
type Relay struct {
	ID       UID    `json:"id"`
	OwnerID  UID    `json:"owner_id"`
	Position Vec3   `json:"position"`
	SystemID UID    `json:"system_id"`
	RangeLy  float64 `json:"range_ly"`

	// RelayLoad is the number of messages currently queued InTransit whose
	// path passes through this relay (supplemented field, see SPEC_FULL §1.3).
	RelayLoad int `json:"relay_load"`
}

// Trade is a resource transfer between two probes, possibly light-delayed.
type Trade struct {
	ID          UID           `json:"id"`
	SenderID    UID           `json:"sender_id"`
	TargetID    UID           `json:"target_id"`
	Resource    Resource      `json:"resource"`
	Amount      float64       `json:"amount"`
	SentTick    int64         `json:"sent_tick"`
	ArrivalTick int64         `json:"arrival_tick"`
	Status      MessageStatus `json:"status"`
}

// StructureType enumerates collaborative-build targets.
type StructureType string

const (
	StructureRelay       StructureType = "relay_satellite"
	StructureResearchLab StructureType = "research_lab"
	StructureShipyard    StructureType = "shipyard"
	StructureBeaconArray StructureType = "beacon_array"
)

// StructureSpec is the static per-type tick budget and resource cost.
type StructureSpec struct {
	BaseTicks int
	Cost      [ResourceCount]float64
}

// StructureSpecs is the fixed catalogue of buildable structure types.
var StructureSpecs = map[StructureType]StructureSpec{
	StructureRelay: {
		BaseTicks: 60,
		Cost:      resourceCost(map[Resource]float64{ResourceIron: 20000, ResourceSilicon: 10000, ResourceExotic: 500}),
	},
	StructureResearchLab: {
		BaseTicks: 120,
		Cost:      resourceCost(map[Resource]float64{ResourceIron: 40000, ResourceSilicon: 30000, ResourceRareEarth: 5000}),
	},
	StructureShipyard: {
		BaseTicks: 200,
		Cost:      resourceCost(map[Resource]float64{ResourceIron: 100000, ResourceSilicon: 20000}),
	},
	StructureBeaconArray: {
		BaseTicks: 30,
		Cost:      resourceCost(map[Resource]float64{ResourceIron: 5000, ResourceSilicon: 5000}),
	},
}

func resourceCost(m map[Resource]float64) [ResourceCount]float64 {
	var out [ResourceCount]float64
	for r, v := range m {
		out[r] = v
	}
	return out
}

// Construction is an in-progress collaborative build.
type Construction struct {
	ID           UID           `json:"id"`
	Type         StructureType `json:"type"`
	SystemID     UID           `json:"system_id"`
	Builders     []UID         `json:"builders"` // up to 4
	TicksDone    float64       `json:"ticks_done"`
	Complete     bool          `json:"complete"`
}

// Proposal is a society-wide vote.
type Proposal struct {
	ID           int            `json:"id"`
	ProposerID   UID            `json:"proposer_id"`
	Text         string         `json:"text"`
	ProposedTick int64          `json:"proposed_tick"`
	DeadlineTick int64          `json:"deadline_tick"`
	Votes        map[UID]bool   `json:"-"` // true = in favor
	Resolved     bool           `json:"resolved"`
	Passed       bool           `json:"passed"`
}

// Tally returns (for, against) vote counts.
func (p *Proposal) Tally() (int, int) {
	for_, against := 0, 0
	for _, inFavor := range p.Votes {
		if inFavor {
			for_++
		} else {
			against++
		}
	}
	return for_, against
}
