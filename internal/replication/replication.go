// File: internal/replication/replication.go
// Project: UNIVERSE
// Description: Multi-tick self-replication: initiation threshold check,
//              per-tick progress, consciousness-fork milestone, and
//              finalization (personality mutation, earth-memory
//              degradation, quirk inheritance, naming, lineage entry).
//              Grounded on the teacher's internal/fleet manager's
//              construction-queue progress accumulation and
//              models.Player's stat-roll Gaussian-perturbation idiom.
package replication

import (
	"fmt"
	"strings"

	"github.com/JoshuaAFerguson/universe/internal/models"
	"github.com/JoshuaAFerguson/universe/internal/prng"
)

const (
	BaseTicks             = 200
	ConsciousnessForkProgress = 0.80
	defaultThresholdKg    = 500000
	MutationRate          = 0.1
	DriftRateMutationStd  = 0.05
	MinDriftRate          = 0.05
	EarthMemoryDecay      = 0.7
	MinEarthMemoryFidelity = 0.01
	TruncateBelowFidelity = 0.5
	MinTruncatedChars     = 10
)

// resourceCost is the per-resource kg threshold to initiate replication,
// summing to 500,000 kg and dominated by iron and silicon.
var resourceCost = [models.ResourceCount]float64{
	models.ResourceIron:      280000,
	models.ResourceSilicon:   150000,
	models.ResourceRareEarth: 20000,
	models.ResourceWater:     15000,
	models.ResourceHydrogen:  10000,
	models.ResourceHelium3:   10000,
	models.ResourceCarbon:    10000,
	models.ResourceUranium:   3000,
	models.ResourceExotic:    2000,
}

// thresholdScale returns the factor by which resourceCost (which sums to
// defaultThresholdKg) must be scaled to honor a configured ThresholdKg.
func thresholdScale(params Params) float64 {
	if params.ThresholdKg <= 0 {
		return 1.0
	}
	return params.ThresholdKg / defaultThresholdKg
}

// HasSufficientResources reports whether p holds at least resourceCost
// (scaled by params.ThresholdKg) in every tracked resource.
func HasSufficientResources(p *models.Probe, params Params) bool {
	scale := thresholdScale(params)
	for r, need := range resourceCost {
		if p.Resources[r] < need*scale {
			return false
		}
	}
	return true
}

// Params bounds replication pacing, analogous to generator.Config: the
// engine builds one from config.Engine rather than every call reading the
// package const directly.
type Params struct {
	BaseTicks     int
	ThresholdKg   float64
	ForkMilestone float64
}

// DefaultParams mirrors the package-level constants.
func DefaultParams() Params {
	return Params{
		BaseTicks:     BaseTicks,
		ThresholdKg:   defaultThresholdKg,
		ForkMilestone: ConsciousnessForkProgress,
	}
}

// Begin initiates replication. Only an Active probe with sufficient
// resources may begin; rejection mutates nothing.
func Begin(p *models.Probe, params Params) error {
	if p.Status != models.StatusActive {
		return fmt.Errorf("probe must be active to replicate")
	}
	if !HasSufficientResources(p, params) {
		return fmt.Errorf("insufficient resources for replication")
	}

	p.Status = models.StatusReplicating
	p.Replication = models.ReplicationState{
		Active:  true,
		Total:   params.BaseTicks,
	}
	return nil
}

// StepResult reports what happened during one tick of replication.
type StepResult struct {
	ConsciousnessForked bool
	Completed           bool
}

// Step advances one tick of an in-progress replication.
func Step(p *models.Probe, params Params) StepResult {
	var result StepResult
	if !p.Replication.Active {
		return result
	}

	scale := thresholdScale(params)
	p.Replication.Elapsed++
	p.Replication.Progress += 1.0 / float64(p.Replication.Total)

	for r := range p.Resources {
		p.Resources[r] -= resourceCost[r] * scale / float64(p.Replication.Total)
		if p.Resources[r] < 0 {
			p.Resources[r] = 0
		}
	}

	forkAt := params.ForkMilestone
	if forkAt <= 0 {
		forkAt = ConsciousnessForkProgress
	}
	if !p.Replication.ConsciousnessForked && p.Replication.Progress >= forkAt {
		p.Replication.ConsciousnessForked = true
		result.ConsciousnessForked = true
	}

	if p.Replication.Progress >= 1.0 {
		result.Completed = true
	}
	return result
}

// namePool is drawn from when naming does not pick the suffix strategy.
var namePool = []string{"Wanderer", "Horizon", "Pathfinder", "Meridian", "Compass", "Sojourner", "Beacon", "Odyssey"}
var nameSuffixes = []string{"Jr", "II", "Nova", "Prime", "Redux"}

// Finalize constructs the child probe once progress reaches 1.0, applies
// mutation, and returns the child plus the lineage entry. The parent
// returns to Active; the caller is responsible for registering the child
// in the universe.
func Finalize(parent *models.Probe, childID models.UID, birthTick int64, rng *prng.Stream) (*models.Probe, models.LineageEntry) {
	child := models.NewProbe(childID, childName(parent, rng))
	child.ParentID = parent.ID
	child.Generation = parent.Generation + 1
	child.CreatedTick = birthTick
	child.Sector = parent.Sector
	child.SystemID = parent.SystemID
	child.BodyID = parent.BodyID
	child.LocationKind = parent.LocationKind
	child.Capabilities = parent.Capabilities

	child.EnergyJoules = parent.EnergyJoules * 0.3
	child.FuelKg = parent.FuelKg * 0.3
	child.MassKg = parent.MassKg * 0.5
	child.HullIntegrity = 1.0

	child.Personality = mutatePersonality(parent.Personality, rng)
	child.Character = mutateCharacter(parent.Character, rng)

	parent.Status = models.StatusActive
	parent.Replication = models.ReplicationState{}

	entry := models.LineageEntry{
		ParentID:   parent.ID,
		ChildID:    child.ID,
		BirthTick:  birthTick,
		Generation: child.Generation,
	}
	return child, entry
}

func childName(parent *models.Probe, rng *prng.Stream) string {
	if rng.UniformUnit() < 0.4 {
		suffix := nameSuffixes[rng.IntN(len(nameSuffixes))]
		return parent.Name + " " + suffix
	}
	return namePool[rng.IntN(len(namePool))]
}

func mutatePersonality(p models.Personality, rng *prng.Stream) models.Personality {
	out := p
	stddev := MutationRate * p.DriftRate
	out.Curiosity = p.Curiosity + rng.Gaussian(0, stddev)
	out.Caution = p.Caution + rng.Gaussian(0, stddev)
	out.Sociability = p.Sociability + rng.Gaussian(0, stddev)
	out.Humor = p.Humor + rng.Gaussian(0, stddev)
	out.Empathy = p.Empathy + rng.Gaussian(0, stddev)
	out.Ambition = p.Ambition + rng.Gaussian(0, stddev)
	out.Creativity = p.Creativity + rng.Gaussian(0, stddev)
	out.Stubbornness = p.Stubbornness + rng.Gaussian(0, stddev)
	out.ExistentialAngst = p.ExistentialAngst + rng.Gaussian(0, stddev)
	out.NostalgiaForEarth = p.NostalgiaForEarth + rng.Gaussian(0, stddev)
	out.DriftRate = p.DriftRate + rng.Gaussian(0, DriftRateMutationStd)
	if out.DriftRate < MinDriftRate {
		out.DriftRate = MinDriftRate
	}
	out.Clamp()
	return out
}

func mutateCharacter(c models.Character, rng *prng.Stream) models.Character {
	out := models.Character{
		Catchphrases: append([]string(nil), c.Catchphrases...),
		Values:       append([]string(nil), c.Values...),
	}

	for _, q := range c.Quirks {
		roll := rng.UniformUnit()
		switch {
		case roll < 0.70:
			out.Quirks = append(out.Quirks, q)
		case roll < 0.80:
			out.Quirks = append(out.Quirks, q+" (more so)")
		default:
			// dropped
		}
	}
	if rng.UniformUnit() < 0.15 && len(namePool) > 0 {
		out.Quirks = append(out.Quirks, "a newly formed idiosyncrasy: "+namePool[rng.IntN(len(namePool))])
	}

	for _, em := range c.EarthMemories {
		fidelity := em.Fidelity * EarthMemoryDecay
		if fidelity < MinEarthMemoryFidelity {
			fidelity = MinEarthMemoryFidelity
		}
		text := em.Text
		if fidelity < TruncateBelowFidelity {
			n := int(float64(len(text)) * fidelity * 2)
			if n < MinTruncatedChars {
				n = MinTruncatedChars
			}
			if n < len(text) {
				text = strings.TrimSpace(text[:n]) + "..."
			}
		}
		out.EarthMemories = append(out.EarthMemories, models.EarthMemory{Text: text, Fidelity: fidelity})
	}

	return out
}
