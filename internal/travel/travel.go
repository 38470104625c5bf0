// File: internal/travel/travel.go
// Project: UNIVERSE
// Description: Interstellar transit state machine: order initiation,
//              per-tick fuel/hull accounting, arrival snap, and sensor
//              scans. Generalized from the teacher's internal/fleet
//              manager's single-system transit bookkeeping to interstellar
//              scale, minus its background worker and mutex (the tick
//              engine is single-threaded, see internal/engine).
package travel

import (
	"fmt"
	"math"
	"sort"

	"github.com/JoshuaAFerguson/universe/internal/models"
	"github.com/JoshuaAFerguson/universe/internal/prng"
)

const (
	TicksPerCycle          = 365
	FuelBurnKgPerLy        = 0.5
	MicrometeoriteStrikeProbability = 5e-4
	MicrometeoriteDamage   = 0.01
	MinFuelReserveKg       = 1.0
)

// Params bounds travel pacing, analogous to generator.Config: the engine
// builds one from config.Engine and threads it through every call instead
// of the package consts being load-bearing directly.
type Params struct {
	TicksPerCycle   int
	FuelBurnKgPerLy float64
}

// DefaultParams mirrors the package-level constants.
func DefaultParams() Params {
	return Params{TicksPerCycle: TicksPerCycle, FuelBurnKgPerLy: FuelBurnKgPerLy}
}

// Order is a travel destination assignment.
type Order struct {
	TargetPos    models.Vec3
	TargetSystem models.UID
	TargetSector models.Sector
}

// Begin initiates travel. Rejections are total: no state is mutated.
func Begin(p *models.Probe, origin models.Vec3, order Order, params Params) error {
	if p.Status == models.StatusTraveling {
		return fmt.Errorf("probe already traveling")
	}

	distance := distanceLy(origin, order.TargetPos)
	fuelNeeded := distance * params.FuelBurnKgPerLy
	if p.FuelKg < MinFuelReserveKg && p.FuelKg < fuelNeeded {
		return fmt.Errorf("insufficient fuel for %.3f ly: have %.3f kg, need %.3f kg", distance, p.FuelKg, fuelNeeded)
	}

	p.Status = models.StatusTraveling
	p.LocationKind = models.LocationInterstellar
	p.SpeedC = p.Capabilities.MaxSpeedC
	p.TravelRemainingLy = distance
	p.Destination = order.TargetPos
	p.Sector = order.TargetSector
	p.SystemID = order.TargetSystem
	p.DestSystemID = order.TargetSystem
	p.DestSector = order.TargetSector
	p.BodyID = models.ZeroUID
	return nil
}

// EstimatedTicks returns the expected tick count to cover distanceLy at speedC.
func EstimatedTicks(distanceLy, speedC float64, params Params) float64 {
	if speedC <= 0 {
		return math.Inf(1)
	}
	return (distanceLy / speedC) * float64(params.TicksPerCycle)
}

// StepResult reports what happened during one tick of travel.
type StepResult struct {
	FuelExhausted bool
	Arrived       bool
	Struck        bool
}

// Step advances one tick of travel for a probe already Traveling. The
// micrometeorite roll always happens, whether or not travel concludes
// this tick, so replay determinism never depends on early return (§9).
func Step(p *models.Probe, rng *prng.Stream, params Params) StepResult {
	var result StepResult

	strikeRoll := rng.UniformUnit()

	if p.Status != models.StatusTraveling {
		return result
	}

	lyPerTick := p.SpeedC / float64(params.TicksPerCycle)
	fuelCost := lyPerTick * params.FuelBurnKgPerLy

	if p.FuelKg < fuelCost {
		p.FuelKg = 0
		p.Status = models.StatusDormant
		p.SpeedC = 0
		result.FuelExhausted = true
		return result
	}

	p.FuelKg -= fuelCost
	p.TravelRemainingLy -= lyPerTick
	interpolateHeading(p, lyPerTick)

	if strikeRoll < MicrometeoriteStrikeProbability {
		p.HullIntegrity -= MicrometeoriteDamage
		if p.HullIntegrity < 0 {
			p.HullIntegrity = 0
		}
		result.Struck = true
	}

	if p.TravelRemainingLy <= 0 {
		p.Heading = p.Destination
		p.Status = models.StatusActive
		p.LocationKind = models.LocationInSystem
		p.SpeedC = 0
		p.TravelRemainingLy = 0
		result.Arrived = true
	}

	return result
}

func interpolateHeading(p *models.Probe, lyPerTick float64) {
	remaining := p.TravelRemainingLy + lyPerTick
	if remaining <= 0 {
		p.Heading = p.Destination
		return
	}
	frac := lyPerTick / remaining
	p.Heading.X += (p.Destination.X - p.Heading.X) * frac
	p.Heading.Y += (p.Destination.Y - p.Heading.Y) * frac
	p.Heading.Z += (p.Destination.Z - p.Heading.Z) * frac
}

func distanceLy(a, b models.Vec3) float64 {
	d := a.Sub(b)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// ScanResult is one entry in a travel_scan result.
type ScanResult struct {
	SystemID    models.UID
	StarClass   models.SpectralClass
	DistanceLy  float64
}

// Scan returns systems within sensorRangeLy of origin, sorted ascending by
// distance, excluding the probe's own location (distance < 0.001 ly).
func Scan(origin models.Vec3, systems []models.System, sensorRangeLy float64) []ScanResult {
	var out []ScanResult
	for _, sys := range systems {
		d := distanceLy(origin, sys.Position)
		if d < 0.001 || d > sensorRangeLy {
			continue
		}
		class := models.SpectralM
		if len(sys.Stars) > 0 {
			class = sys.Stars[0].SpectralClass
		}
		out = append(out, ScanResult{SystemID: sys.ID, StarClass: class, DistanceLy: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceLy < out[j].DistanceLy })
	return out
}

// LorentzFactor returns 1/sqrt(1-v^2), capped for v at or beyond c.
// Used for telemetry only; it never feeds back into travel math.
func LorentzFactor(v float64) float64 {
	if v >= 1 {
		return 1e9
	}
	if v <= 0 {
		return 1
	}
	return 1 / math.Sqrt(1-v*v)
}
