// File: internal/comms/comms.go
// Project: UNIVERSE
// Description: Targeted/broadcast messaging, beacons, and relay routing.
//              Grounded on the teacher's internal/chat and internal/mail
//              envelope/status-transition shape (InTransit -> Delivered),
//              generalized from real-time delivery to light-delay arrival
//              ticks, and on internal/diplomacy's manager-owns-state shape
//              without its mutex (single-threaded engine, see §5).
package comms

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/JoshuaAFerguson/universe/internal/models"
)

const (
	baseCommRangeLy   = 5.0
	commRangePerLevel = 5.0
	relayRangeLy      = 20.0
	targetedMessageCostJ  = 1000.0
	broadcastMessageCostJ = 10000.0
)

// Params bounds comms range pacing, analogous to generator.Config: the
// engine builds one from config.Engine rather than CommRange reading the
// package const directly.
type Params struct {
	BaseRangeLy float64
}

// DefaultParams mirrors the package-level constant.
func DefaultParams() Params {
	return Params{BaseRangeLy: baseCommRangeLy}
}

// CommRange returns the effective comm range for a communication-tech level.
func CommRange(commTechLevel int, params Params) float64 {
	return params.BaseRangeLy + commRangePerLevel*float64(commTechLevel)
}

// Manager owns in-flight messages, beacons, and the relay network. It holds
// no lock: the engine's single-threaded tick loop is the only caller.
type Manager struct {
	Messages []*models.Message
	Beacons  []*models.Beacon
	Relays   []*models.Relay
	nextMessageID int64
}

// NewManager constructs an empty comms manager.
func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) allocID() models.UID {
	m.nextMessageID++
	return models.UID{Hi: 0, Lo: uint64(m.nextMessageID)}
}

// SendTargeted charges the sender, verifies reachability by direct range or
// via the relay graph, and queues a light-delayed message. senderPos and
// targetPos are resolved by the caller (the engine owns probe position:
// a system's galactic position, or the probe's interpolated heading while
// Traveling); Manager itself tracks no probe position.
func SendTargeted(m *Manager, sender *models.Probe, senderPos models.Vec3, target models.UID, targetPos models.Vec3, text string, sentTick int64, params Params) error {
	if sender.EnergyJoules < targetedMessageCostJ {
		return fmt.Errorf("insufficient energy: need %.0f J", targetedMessageCostJ)
	}

	senderRange := CommRange(sender.Capabilities.TechLevels[models.TechCommunication], params)
	distance := distanceLy(senderPos, targetPos)

	var relayPath []models.UID
	reachable := distance <= senderRange
	if !reachable {
		relayDist, path, ok := shortestRelayRoute(m, senderPos, targetPos, senderRange)
		reachable = ok
		if ok {
			distance = relayDist
			relayPath = path
		}
	}
	if !reachable {
		return fmt.Errorf("target unreachable: out of comm range and no relay path")
	}

	sender.EnergyJoules -= targetedMessageCostJ
	arrival := sentTick + int64(math.Round(distance*365))
	m.Messages = append(m.Messages, &models.Message{
		ID:          m.allocID(),
		SenderID:    sender.ID,
		TargetID:    target,
		Text:        text,
		SentTick:    sentTick,
		ArrivalTick: arrival,
		Status:      models.MessageInTransit,
		RelayPath:   relayPath,
	})
	return nil
}

// Recipient pairs a candidate broadcast recipient with its resolved
// galactic position.
type Recipient struct {
	Probe    *models.Probe
	Position models.Vec3
}

// Broadcast charges the sender and queues a copy to every probe within
// direct range (relays do not extend a broadcast). Returns recipient count.
func Broadcast(m *Manager, sender *models.Probe, senderPos models.Vec3, text string, sentTick int64, candidates []Recipient, params Params) (int, error) {
	if sender.EnergyJoules < broadcastMessageCostJ {
		return 0, fmt.Errorf("insufficient energy: need %.0f J", broadcastMessageCostJ)
	}
	sender.EnergyJoules -= broadcastMessageCostJ

	senderRange := CommRange(sender.Capabilities.TechLevels[models.TechCommunication], params)
	count := 0
	for _, c := range candidates {
		if c.Probe.ID == sender.ID || c.Probe.Status == models.StatusDestroyed {
			continue
		}
		distance := distanceLy(senderPos, c.Position)
		if distance > senderRange {
			continue
		}
		arrival := sentTick + int64(math.Round(distance*365))
		m.Messages = append(m.Messages, &models.Message{
			ID:          m.allocID(),
			SenderID:    sender.ID,
			TargetID:    c.Probe.ID,
			Text:        text,
			SentTick:    sentTick,
			ArrivalTick: arrival,
			Status:      models.MessageInTransit,
		})
		count++
	}
	return count, nil
}

// PlaceBeacon anchors a fire-and-forget message to a system.
func PlaceBeacon(m *Manager, author *models.Probe, systemID models.UID, text string, tick int64) {
	m.Beacons = append(m.Beacons, &models.Beacon{
		ID:         m.allocID(),
		SystemID:   systemID,
		AuthorID:   author.ID,
		Text:       text,
		PlacedTick: tick,
	})
}

// BeaconsInSystem returns every beacon anchored to systemID.
func (m *Manager) BeaconsInSystem(systemID models.UID) []*models.Beacon {
	var out []*models.Beacon
	for _, b := range m.Beacons {
		if b.SystemID == systemID {
			out = append(out, b)
		}
	}
	return out
}

// RegisterRelay adds a completed relay satellite to the network, called by
// internal/society when a StructureRelay construction finishes.
func (m *Manager) RegisterRelay(r *models.Relay) {
	m.Relays = append(m.Relays, r)
}

// DeliverDueMessages flips every InTransit message whose arrival_tick has
// passed to Delivered. Called once per tick from the engine.
func DeliverDueMessages(m *Manager, currentTick int64) {
	for _, msg := range m.Messages {
		if msg.Status == models.MessageInTransit && msg.ArrivalTick <= currentTick {
			msg.Status = models.MessageDelivered
		}
	}
}

// RelayLoad reports how many in-transit messages currently route through
// relayID, for the supplemented per-relay congestion metric (SPEC_FULL §1.3).
func (m *Manager) RelayLoad(relayID models.UID) int {
	count := 0
	for _, msg := range m.Messages {
		if msg.Status != models.MessageInTransit {
			continue
		}
		for _, hop := range msg.RelayPath {
			if hop == relayID {
				count++
				break
			}
		}
	}
	return count
}

// Inbox returns every delivered message addressed to probeID.
func (m *Manager) Inbox(probeID models.UID) []*models.Message {
	var out []*models.Message
	for _, msg := range m.Messages {
		if msg.TargetID == probeID && msg.Status == models.MessageDelivered {
			out = append(out, msg)
		}
	}
	return out
}

func distanceLy(a, b models.Vec3) float64 {
	d := a.Sub(b)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// Dijkstra node indices: node 0 is the virtual source, node 1 the virtual
// target, and Manager.Relays[i] is node firstRelayNode+i.
const (
	sourceNode = 0
	targetNode = 1
	firstRelayNode = 2
)

type pqItem struct {
	node int
	dist float64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// ShortestRelayPath runs Dijkstra over the relay graph from origin to
// target and reports only the total distance and reachability. Source->relay
// edges exist if distance <= senderRange; relay->relay and relay->target
// edges exist if distance <= the relay's own range (20 ly). No
// shortest-path library appears anywhere in the retrieval pack, so this is
// a from-scratch container/heap implementation (see DESIGN.md).
func ShortestRelayPath(m *Manager, origin, target models.Vec3, senderRange float64) (float64, bool) {
	dist, _, ok := shortestRelayRoute(m, origin, target, senderRange)
	return dist, ok
}

// shortestRelayRoute is ShortestRelayPath's underlying search, additionally
// reconstructing the relay IDs (in hop order) the winning path passes
// through, so SendTargeted can attribute in-transit load per relay.
func shortestRelayRoute(m *Manager, origin, target models.Vec3, senderRange float64) (float64, []models.UID, bool) {
	n := firstRelayNode + len(m.Relays)
	dist := make([]float64, n)
	prev := make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[sourceNode] = 0

	pq := &priorityQueue{{node: sourceNode, dist: 0}}
	heap.Init(pq)

	visited := make([]bool, n)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		if cur.node == targetNode {
			return cur.dist, relayPathFromPrev(m, prev, cur.node), true
		}

		neighbors := neighborsOf(m, cur.node, origin, target, senderRange)
		for _, e := range neighbors {
			nd := cur.dist + e.weight
			if nd < dist[e.node] {
				dist[e.node] = nd
				prev[e.node] = cur.node
				heap.Push(pq, pqItem{node: e.node, dist: nd})
			}
		}
	}

	return 0, nil, false
}

// relayPathFromPrev walks prev back from node to the source, collecting the
// relay IDs visited along the way, then reverses the result into hop order.
func relayPathFromPrev(m *Manager, prev []int, node int) []models.UID {
	var path []models.UID
	for n := prev[node]; n >= firstRelayNode; n = prev[n] {
		path = append(path, m.Relays[n-firstRelayNode].ID)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type edge struct {
	node   int
	weight float64
}

func neighborsOf(m *Manager, node int, origin, target models.Vec3, senderRange float64) []edge {
	var out []edge
	switch {
	case node == sourceNode:
		for i, r := range m.Relays {
			d := distanceLy(origin, r.Position)
			if d <= senderRange {
				out = append(out, edge{node: firstRelayNode + i, weight: d})
			}
		}
	case node == targetNode:
		// no outgoing edges from the virtual target
	default:
		relayIdx := node - firstRelayNode
		relay := m.Relays[relayIdx]
		d := distanceLy(relay.Position, target)
		if d <= relay.RangeLy {
			out = append(out, edge{node: targetNode, weight: d})
		}
		for j, other := range m.Relays {
			if j == relayIdx {
				continue
			}
			d := distanceLy(relay.Position, other.Position)
			if d <= relay.RangeLy {
				out = append(out, edge{node: firstRelayNode + j, weight: d})
			}
		}
	}
	return out
}
