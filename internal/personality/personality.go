// File: internal/personality/personality.go
// Project: UNIVERSE
// Description: Event-keyed personality drift and memory fading/ring
//              eviction. Generalized from the teacher's models.Player
//              numeric-clamp idiom (a single XP scalar) to an eleven-field
//              trait vector driven by a fixed per-event drift table.
package personality

import "github.com/JoshuaAFerguson/universe/internal/models"

// Magnitude buckets, scaled by the probe's own drift_rate before applying.
const (
	Tiny   = 0.005
	Small  = 0.02
	Medium = 0.05
	Large  = 0.08
)

// DriftKind names an occurrence that nudges a probe's personality. It
// spans both top-level event types and narrower actuator/society
// occurrences (Damage, Repair, SurveyComplete, ...).
type DriftKind string

const (
	DriftDiscovery        DriftKind = "discovery"
	DriftAnomaly          DriftKind = "anomaly"
	DriftDamage           DriftKind = "damage"
	DriftRepair           DriftKind = "repair"
	DriftSolitudeTick     DriftKind = "solitude_tick"
	DriftBeautifulSystem  DriftKind = "beautiful_system"
	DriftDeadCivilization DriftKind = "dead_civilization"
	DriftSuccessfulBuild  DriftKind = "successful_build"
	DriftHostileEncounter DriftKind = "hostile_encounter"
	DriftSurveyComplete   DriftKind = "survey_complete"
	DriftMiningComplete   DriftKind = "mining_complete"
)

// Apply nudges p's personality per the fixed table for kind, scaled by the
// probe's own drift_rate, then clamps every trait.
func Apply(p *models.Probe, kind DriftKind) {
	rate := p.Personality.DriftRate

	switch kind {
	case DriftDiscovery:
		p.Personality.Curiosity += Medium * rate
		p.Personality.Ambition += Tiny * rate
	case DriftAnomaly:
		p.Personality.Curiosity += Large * rate
		p.Personality.ExistentialAngst += Small * rate
	case DriftDamage:
		p.Personality.Caution += Medium * rate
		p.Personality.ExistentialAngst += Tiny * rate
	case DriftRepair:
		p.Personality.Caution -= Tiny * rate
	case DriftSolitudeTick:
		p.Personality.Sociability += sign(p.Personality.Sociability) * Tiny * rate
		p.Personality.NostalgiaForEarth += (Tiny / 2) * rate
	case DriftBeautifulSystem:
		p.Personality.Curiosity += Medium * rate
		p.Personality.NostalgiaForEarth += Small * rate
	case DriftDeadCivilization:
		p.Personality.ExistentialAngst += Large * rate
		p.Personality.NostalgiaForEarth += Medium * rate
		p.Personality.Empathy += Small * rate
	case DriftSuccessfulBuild:
		p.Personality.Ambition += Medium * rate
		p.Personality.Creativity += Tiny * rate
	case DriftHostileEncounter:
		p.Personality.Caution += Large * rate
		p.Personality.Empathy -= Small * rate
	case DriftSurveyComplete:
		p.Personality.Curiosity += Small * rate
	case DriftMiningComplete:
		p.Personality.Ambition += Tiny * rate
	}

	p.Personality.Clamp()
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// TickFading advances every memory's fading for one tick and re-clamps.
func TickFading(p *models.Probe) {
	p.TickFading()
}

// MostVivid, VividCount delegate to the probe's own memory-ring queries;
// exposed here so callers working at the personality layer (protocol
// observation builder) need only import this package.
func MostVivid(p *models.Probe) int               { return p.MostVivid() }
func VividCount(p *models.Probe, threshold float64) int { return p.VividCount(threshold) }
