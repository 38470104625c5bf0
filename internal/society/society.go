// File: internal/society/society.go
// Project: UNIVERSE
// Description: Trust/disposition bookkeeping, trade, territory claims,
//              collaborative construction, proposals/voting, and tech
//              sharing. Merges four of the teacher's single-purpose
//              managers (internal/diplomacy, internal/territory,
//              internal/trade, and internal/fleet's collaborative-build
//              accumulation) into one cooperative, single-threaded
//              subsystem per §5 — no locks, no background workers.
package society

import (
	"fmt"

	"github.com/JoshuaAFerguson/universe/internal/models"
)

// Trust deltas, applied symmetrically to both sides of a relationship.
const (
	TrustTrade                 = 0.05
	TrustSharedDiscovery       = 0.03
	TrustTechShare             = 0.08
	TrustCollaborativeBuild    = 0.06
	TrustTerritoryTrespass     = -0.10
	TrustPoliticalDisagreement = -0.05

	interSystemTradeDelayTicks = 100
	techShareResearchDiscount  = 0.40
)

// Manager owns trades, territory claims, constructions, proposals, and the
// tech-share discount ledger. Single-threaded: the engine's tick loop is
// the only caller.
type Manager struct {
	Trades        []*models.Trade
	Constructions []*models.Construction
	Proposals     []*models.Proposal
	Claims        map[models.UID]models.UID // systemID -> owning probe

	trespassCharged map[models.UID]models.UID // probeID -> systemID already charged this stay
	researchDiscount map[discountKey]bool

	nextTradeID    int64
	nextProposalID int
}

type discountKey struct {
	Probe  models.UID
	Domain models.TechDomain
}

// NewManager constructs an empty society manager.
func NewManager() *Manager {
	return &Manager{
		Claims:           make(map[models.UID]models.UID),
		trespassCharged:  make(map[models.UID]models.UID),
		researchDiscount: make(map[discountKey]bool),
	}
}

// AdjustTrust applies delta symmetrically to both sides of the a<->b
// relationship. Relationships are created lazily on first interaction.
func AdjustTrust(a, b *models.Probe, delta float64) {
	a.RelationshipWith(b.ID).AdjustTrust(delta)
	b.RelationshipWith(a.ID).AdjustTrust(delta)
}

// --- Trade ---

func (m *Manager) allocTradeID() models.UID {
	m.nextTradeID++
	return models.UID{Hi: 1, Lo: uint64(m.nextTradeID)}
}

// InitiateTrade deducts amount from sender immediately and queues delivery:
// same-system arrives this tick, inter-system arrives 100 ticks out.
func (m *Manager) InitiateTrade(sender, receiver *models.Probe, resource models.Resource, amount float64, sameSystem bool, tick int64) (*models.Trade, error) {
	if sender.Resources[resource] < amount {
		return nil, fmt.Errorf("insufficient %s: have %.2f, need %.2f", resource, sender.Resources[resource], amount)
	}
	sender.Resources[resource] -= amount

	arrival := tick
	if !sameSystem {
		arrival = tick + interSystemTradeDelayTicks
	}

	trade := &models.Trade{
		ID: m.allocTradeID(), SenderID: sender.ID, TargetID: receiver.ID,
		Resource: resource, Amount: amount, SentTick: tick, ArrivalTick: arrival,
		Status: models.MessageInTransit,
	}
	m.Trades = append(m.Trades, trade)
	return trade, nil
}

// DeliverDueTrades credits every trade whose arrival tick has passed and
// awards the successful-trade trust bonus to both parties.
func (m *Manager) DeliverDueTrades(currentTick int64, probes map[models.UID]*models.Probe) {
	for _, trade := range m.Trades {
		if trade.Status != models.MessageInTransit || trade.ArrivalTick > currentTick {
			continue
		}
		trade.Status = models.MessageDelivered
		if receiver, ok := probes[trade.TargetID]; ok {
			receiver.Resources[trade.Resource] += trade.Amount
		}
		sender, senderOK := probes[trade.SenderID]
		receiver, receiverOK := probes[trade.TargetID]
		if senderOK && receiverOK {
			AdjustTrust(sender, receiver, TrustTrade)
		}
	}
}

// --- Territory ---

// Claim binds systemID to probe, failing if already claimed by another probe.
func (m *Manager) Claim(systemID models.UID, probe *models.Probe) error {
	if owner, ok := m.Claims[systemID]; ok && owner != probe.ID {
		return fmt.Errorf("system already claimed")
	}
	m.Claims[systemID] = probe.ID
	return nil
}

// Revoke releases probe's claim on systemID.
func (m *Manager) Revoke(systemID models.UID, probe *models.Probe) error {
	owner, ok := m.Claims[systemID]
	if !ok || owner != probe.ID {
		return fmt.Errorf("probe does not hold this claim")
	}
	delete(m.Claims, systemID)
	return nil
}

// CheckTrespass charges the once-per-entry trespass penalty when probe is
// present in a system claimed by someone else. The charge resets once the
// probe leaves the claimed system (tracked via currentSystemID), so a
// subsequent re-entry is charged again.
func (m *Manager) CheckTrespass(probe *models.Probe, currentSystemID models.UID, probes map[models.UID]*models.Probe) bool {
	ownerID, claimed := m.Claims[currentSystemID]
	if !claimed || ownerID == probe.ID {
		delete(m.trespassCharged, probe.ID)
		return false
	}
	if m.trespassCharged[probe.ID] == currentSystemID {
		return false
	}
	m.trespassCharged[probe.ID] = currentSystemID

	if owner, ok := probes[ownerID]; ok {
		AdjustTrust(probe, owner, TrustTerritoryTrespass)
	}
	return true
}

// --- Collaborative construction ---

// BeginConstruction starts a structure build with up to four collaborators.
func (m *Manager) BeginConstruction(id models.UID, structureType models.StructureType, systemID models.UID, builders []models.UID) (*models.Construction, error) {
	if len(builders) == 0 {
		return nil, fmt.Errorf("construction requires at least one builder")
	}
	if len(builders) > 4 {
		return nil, fmt.Errorf("at most four collaborators may build together")
	}
	if _, ok := models.StructureSpecs[structureType]; !ok {
		return nil, fmt.Errorf("unknown structure type %q", structureType)
	}
	c := &models.Construction{ID: id, Type: structureType, SystemID: systemID, Builders: append([]models.UID(nil), builders...)}
	m.Constructions = append(m.Constructions, c)
	return c, nil
}

// EffectiveBuildRate returns the diminishing-returns tick rate for a given
// collaborator count: 1 + 0.6*(builders-1).
func EffectiveBuildRate(builderCount int) float64 {
	if builderCount <= 0 {
		return 0
	}
	return 1 + 0.6*float64(builderCount-1)
}

// StepConstruction advances one tick of progress, returning true once the
// structure's base tick budget is reached.
func (m *Manager) StepConstruction(c *models.Construction) bool {
	if c.Complete {
		return true
	}
	spec := models.StructureSpecs[c.Type]
	c.TicksDone += EffectiveBuildRate(len(c.Builders))
	if c.TicksDone >= float64(spec.BaseTicks) {
		c.Complete = true
	}
	return c.Complete
}

// AwardConstructionTrust applies the collaborative-build trust bonus
// between every pair of a completed construction's builders. Split from
// StepConstruction because the Manager does not hold probe pointers.
func AwardConstructionTrust(builders []*models.Probe) {
	for i := 0; i < len(builders); i++ {
		for j := i + 1; j < len(builders); j++ {
			AdjustTrust(builders[i], builders[j], TrustCollaborativeBuild)
		}
	}
}

// --- Voting ---

func (m *Manager) allocProposalID() int {
	m.nextProposalID++
	return m.nextProposalID
}

// Propose opens a new vote.
func (m *Manager) Propose(proposerID models.UID, text string, tick, deadlineTick int64) *models.Proposal {
	p := &models.Proposal{
		ID: m.allocProposalID(), ProposerID: proposerID, Text: text,
		ProposedTick: tick, DeadlineTick: deadlineTick, Votes: make(map[models.UID]bool),
	}
	m.Proposals = append(m.Proposals, p)
	return p
}

// Vote records one voter's position, overwriting any prior vote by the
// same voter.
func (m *Manager) Vote(proposalID int, voterID models.UID, inFavor bool) error {
	for _, p := range m.Proposals {
		if p.ID != proposalID {
			continue
		}
		if p.Resolved {
			return fmt.Errorf("proposal %d already resolved", proposalID)
		}
		p.Votes[voterID] = inFavor
		return nil
	}
	return fmt.Errorf("proposal %d not found", proposalID)
}

// ResolveDue resolves every unresolved proposal whose deadline has passed.
// Strict majority required; ties fail.
func (m *Manager) ResolveDue(tick int64) []*models.Proposal {
	var resolved []*models.Proposal
	for _, p := range m.Proposals {
		if p.Resolved || tick < p.DeadlineTick {
			continue
		}
		for_, against := p.Tally()
		p.Passed = for_ > against
		p.Resolved = true
		resolved = append(resolved, p)
	}
	return resolved
}

// ApplyPoliticalDisagreement charges the disagreement penalty between every
// pair of voters who landed on opposite sides of a resolved proposal.
func ApplyPoliticalDisagreement(p *models.Proposal, probes map[models.UID]*models.Probe) {
	var forVoters, againstVoters []models.UID
	for voter, inFavor := range p.Votes {
		if inFavor {
			forVoters = append(forVoters, voter)
		} else {
			againstVoters = append(againstVoters, voter)
		}
	}
	for _, a := range forVoters {
		pa, ok := probes[a]
		if !ok {
			continue
		}
		for _, b := range againstVoters {
			pb, ok := probes[b]
			if !ok {
				continue
			}
			AdjustTrust(pa, pb, TrustPoliticalDisagreement)
		}
	}
}

// --- Tech sharing ---

// ShareTech bumps receiver's level in domain directly to sender's level,
// iff sender's is strictly higher, and marks a discounted research budget
// for the next level in that domain.
func (m *Manager) ShareTech(sender, receiver *models.Probe, domain models.TechDomain) error {
	senderLevel := sender.Capabilities.TechLevels[domain]
	if senderLevel <= receiver.Capabilities.TechLevels[domain] {
		return fmt.Errorf("sender's %s level is not higher than receiver's", domain)
	}
	receiver.Capabilities.TechLevels[domain] = senderLevel
	receiver.Capabilities.RecomputeRates()
	AdjustTrust(sender, receiver, TrustTechShare)
	m.researchDiscount[discountKey{Probe: receiver.ID, Domain: domain}] = true
	return nil
}

// ResearchTickBudget returns the tick budget for one level of research in
// domain, cutting it to 40% of baseTicks (and consuming the discount) if
// the probe has a post-share discount pending.
func (m *Manager) ResearchTickBudget(probeID models.UID, domain models.TechDomain, baseTicks int) int {
	key := discountKey{Probe: probeID, Domain: domain}
	if m.researchDiscount[key] {
		delete(m.researchDiscount, key)
		return int(float64(baseTicks) * techShareResearchDiscount)
	}
	return baseTicks
}

// AwardSharedDiscovery credits the shared-discovery trust bonus between two
// co-located probes witnessing the same discovery.
func AwardSharedDiscovery(a, b *models.Probe) {
	AdjustTrust(a, b, TrustSharedDiscovery)
}
