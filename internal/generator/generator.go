// File: internal/generator/generator.go
// Project: UNIVERSE
// Description: Deterministic procedural synthesis of a galaxy sector's
//              systems, stars, and planets from a seed and sector
//              coordinate. Structurally grounded on the terminal-velocity
//              universe generator's phased Generate() (systems, then
//              per-system detail, then descriptive content), with its
//              shared *rand.Rand replaced by a coordinate-derived
//              prng.Stream so that sector materialisation never touches
//              the engine's main RNG stream.
package generator

import (
	"fmt"
	"math"

	"github.com/JoshuaAFerguson/universe/internal/models"
	"github.com/JoshuaAFerguson/universe/internal/prng"
)

// Config bounds sector generation, analogous to the teacher's
// GeneratorConfig but keyed to galactocentric radius bands rather than
// distance-from-Sol.
type Config struct {
	CoreRadiusSectors  float64 // sectors within this radius are "core" (dense)
	HaloRadiusSectors  float64 // sectors beyond this radius are "halo" (sparse)
	MaxSystemsPerSector int
	MinSystemsPerSector int
}

// DefaultConfig mirrors the teacher's DefaultConfig proportions, rescaled
// from light-year radii to sector-coordinate radii.
func DefaultConfig() Config {
	return Config{
		CoreRadiusSectors:   3.0,
		HaloRadiusSectors:   12.0,
		MinSystemsPerSector: 1,
		MaxSystemsPerSector: 14,
	}
}

// GenerateSector deterministically synthesises every system in one sector.
// Calling it twice with the same seed and coordinate is guaranteed to
// return byte-identical systems (see the sector-determinism invariant).
func GenerateSector(seed int64, coord models.Sector, cfg Config) []models.System {
	rng := prng.Derive(seed, coord.X, coord.Y, coord.Z)

	count := systemCount(rng, coord, cfg)
	systems := make([]models.System, count)
	ng := newNameGenerator(rng)

	for i := 0; i < count; i++ {
		systems[i] = generateSystem(rng, ng, coord, i)
	}

	return systems
}

// systemCount picks how many systems a sector holds, denser near the
// galactic origin and sparser toward the halo — the same banded-distance
// idea as the teacher's generateDistance, inverted from "distance of one
// system from Sol" to "density of one sector from origin".
func systemCount(rng *prng.Stream, coord models.Sector, cfg Config) int {
	dist := math.Sqrt(float64(coord.X*coord.X + coord.Y*coord.Y + coord.Z*coord.Z))

	var density float64
	switch {
	case dist <= cfg.CoreRadiusSectors:
		density = 0.9
	case dist <= cfg.HaloRadiusSectors:
		// Linear falloff from core density to halo density across the band.
		t := (dist - cfg.CoreRadiusSectors) / (cfg.HaloRadiusSectors - cfg.CoreRadiusSectors)
		density = 0.9 - t*0.7
	default:
		density = 0.1
	}

	span := cfg.MaxSystemsPerSector - cfg.MinSystemsPerSector
	n := cfg.MinSystemsPerSector + int(density*float64(span)) + rng.IntN(3) - 1
	if n < cfg.MinSystemsPerSector {
		n = cfg.MinSystemsPerSector
	}
	if n > cfg.MaxSystemsPerSector {
		n = cfg.MaxSystemsPerSector
	}
	return n
}

func generateSystem(rng *prng.Stream, ng *nameGenerator, coord models.Sector, index int) models.System {
	hi, lo := prng.GenerateUID(rng)
	id := models.UID{Hi: hi, Lo: lo}

	name := ng.systemName()

	pos := models.Vec3{
		X: float64(coord.X)*10 + rng.UniformUnit()*10,
		Y: float64(coord.Y)*10 + rng.UniformUnit()*10,
		Z: float64(coord.Z)*10 + rng.UniformUnit()*10,
	}

	numStars := 1
	if rng.UniformUnit() < 0.12 {
		numStars = 2 // binary system
	}
	stars := make([]models.Star, numStars)
	var primaryLuminosity float64
	for i := range stars {
		stars[i] = generateStar(rng, fmt.Sprintf("%s-%d", name, i+1))
		if i == 0 {
			primaryLuminosity = stars[i].SolarLuminosity
		}
	}

	numPlanets := rng.IntN(8) // 0-7 planets
	planets := make([]models.Planet, numPlanets)
	for j := 0; j < numPlanets; j++ {
		planets[j] = generatePlanet(rng, name, j, primaryLuminosity, id)
	}

	return models.System{
		ID:       id,
		Name:     name,
		Sector:   coord,
		Position: pos,
		Stars:    stars,
		Planets:  planets,
	}
}

// spectralBand is one entry of the cumulative spectral-class distribution.
type spectralBand struct {
	class      models.SpectralClass
	cumulative float64
}

// spectralDistribution is cumulative so M dominates (>40%) and O is rare
// (<2%), per the habitability/rarity text in the spec.
var spectralDistribution = []spectralBand{
	{models.SpectralM, 0.45},
	{models.SpectralK, 0.57},
	{models.SpectralG, 0.66},
	{models.SpectralF, 0.72},
	{models.SpectralA, 0.76},
	{models.SpectralB, 0.78},
	{models.SpectralO, 0.795},
	{models.SpectralWhiteDwarf, 0.92},
	{models.SpectralNeutron, 0.99},
	{models.SpectralBlackHole, 1.0},
}

func sampleSpectralClass(rng *prng.Stream) models.SpectralClass {
	roll := rng.UniformUnit()
	for _, band := range spectralDistribution {
		if roll < band.cumulative {
			return band.class
		}
	}
	return models.SpectralM
}

func generateStar(rng *prng.Stream, name string) models.Star {
	class := sampleSpectralClass(rng)

	var mass, temp float64
	switch class {
	case models.SpectralO:
		mass, temp = 20+rng.UniformUnit()*40, 30000+rng.UniformUnit()*20000
	case models.SpectralB:
		mass, temp = 3+rng.UniformUnit()*15, 10000+rng.UniformUnit()*20000
	case models.SpectralA:
		mass, temp = 1.4+rng.UniformUnit()*0.7, 7500+rng.UniformUnit()*2500
	case models.SpectralF:
		mass, temp = 1.0+rng.UniformUnit()*0.3, 6000+rng.UniformUnit()*1500
	case models.SpectralG:
		mass, temp = 0.8+rng.UniformUnit()*0.2, 5300+rng.UniformUnit()*700
	case models.SpectralK:
		mass, temp = 0.45+rng.UniformUnit()*0.35, 3900+rng.UniformUnit()*1400
	case models.SpectralM:
		mass, temp = 0.08+rng.UniformUnit()*0.37, 2300+rng.UniformUnit()*1300
	case models.SpectralWhiteDwarf:
		mass, temp = 0.5+rng.UniformUnit()*0.7, 8000+rng.UniformUnit()*40000
	case models.SpectralNeutron:
		mass, temp = 1.1+rng.UniformUnit()*1.3, 600000
	default: // black hole
		mass, temp = 5+rng.UniformUnit()*95, 0
	}

	// Mass-luminosity relation L ~ M^3.5 for main-sequence-ish classes; degenerate
	// remnants get a flat low luminosity instead of following the same power law.
	var luminosity float64
	switch class {
	case models.SpectralWhiteDwarf, models.SpectralNeutron, models.SpectralBlackHole:
		luminosity = 0.001 + rng.UniformUnit()*0.01
	default:
		luminosity = math.Pow(mass, 3.5)
	}

	return models.Star{
		Name:            name,
		SpectralClass:   class,
		SolarMasses:     mass,
		SolarLuminosity: luminosity,
		TemperatureK:    temp,
		AgeGyr:          rng.UniformUnit() * 12,
		Metallicity:     rng.Gaussian(0, 0.3),
		LocalPosition:   models.Vec3{},
	}
}

// HabitableZone returns the inner and outer boundary, in AU, of the
// circumstellar habitable band for a star of the given solar luminosity.
func HabitableZone(luminosity float64) (inner, outer float64) {
	root := math.Sqrt(luminosity)
	return 0.95 * root, 1.37 * root
}

var planetTypeOrder = []models.PlanetType{
	models.PlanetRocky, models.PlanetSuperEarth, models.PlanetOcean,
	models.PlanetLava, models.PlanetDesert, models.PlanetIce,
	models.PlanetCarbon, models.PlanetIron, models.PlanetGasGiant,
	models.PlanetIceGiant, models.PlanetRogue,
}

func samplePlanetType(rng *prng.Stream, orbitalRadiusAU, inner, outer float64) models.PlanetType {
	roll := rng.UniformUnit()
	switch {
	case orbitalRadiusAU > outer*3 && roll < 0.5:
		return models.PlanetGasGiant
	case orbitalRadiusAU > outer*1.5 && roll < 0.35:
		return models.PlanetIceGiant
	case orbitalRadiusAU < inner*0.3 && roll < 0.4:
		return models.PlanetLava
	case orbitalRadiusAU >= inner && orbitalRadiusAU <= outer && roll < 0.3:
		return models.PlanetOcean
	default:
		return planetTypeOrder[rng.IntN(len(planetTypeOrder))]
	}
}

func generatePlanet(rng *prng.Stream, systemName string, index int, primaryLuminosity float64, systemID models.UID) models.Planet {
	hi, lo := prng.GenerateUID(rng)
	id := models.UID{Hi: hi, Lo: lo}

	orbitalRadiusAU := 0.2 + math.Pow(rng.UniformUnit(), 1.5)*40
	inner, outer := HabitableZone(primaryLuminosity)

	ptype := samplePlanetType(rng, orbitalRadiusAU, inner, outer)

	var mass float64
	if ptype.IsGiant() {
		mass = 5 + rng.UniformUnit()*300 // gas-giant mass > 5 Earth masses
	} else {
		mass = 0.05 + rng.UniformUnit()*2.95 // rocky mass < 3 Earth masses
	}
	radius := math.Pow(mass, 0.4)

	orbitalPeriodDays := math.Pow(orbitalRadiusAU, 1.5) * 365.25

	surfaceTemp := 278 * math.Sqrt(math.Sqrt(primaryLuminosity)) / math.Sqrt(orbitalRadiusAU)

	var waterCoverage float64
	if orbitalRadiusAU >= inner && orbitalRadiusAU <= outer {
		waterCoverage = rng.UniformUnit()
	} else {
		waterCoverage = rng.UniformUnit() * 0.1
	}

	habitability := habitabilityIndex(orbitalRadiusAU, inner, outer, ptype, waterCoverage)

	planet := models.Planet{
		ID:                    id,
		Name:                  planetName(systemName, index),
		Type:                  ptype,
		OrbitalRadiusAU:       orbitalRadiusAU,
		OrbitalPeriodDays:     orbitalPeriodDays,
		Eccentricity:          rng.UniformUnit() * 0.9,
		Obliquity:             rng.UniformUnit() * 180,
		RotationHours:         2 + rng.UniformUnit()*3000,
		MassEarth:             mass,
		RadiusEarth:           radius,
		SurfaceTempK:          surfaceTemp,
		AtmospherePressureAtm: rng.UniformUnit() * 5,
		WaterCoverage:         waterCoverage,
		MagneticFieldGauss:    rng.UniformUnit() * 2,
		HabitabilityIndex:     habitability,
		ResourceAbundance:     generateResourceAbundance(rng, ptype),
	}

	if rng.UniformUnit() < 0.03 {
		planet.Artifact = generateArtifact(rng)
	}

	_ = systemID
	return planet
}

func habitabilityIndex(orbitalRadiusAU, inner, outer float64, ptype models.PlanetType, waterCoverage float64) float64 {
	if ptype.IsGiant() || ptype == models.PlanetRogue {
		return 0
	}
	if orbitalRadiusAU < inner || orbitalRadiusAU > outer {
		return 0.05 * waterCoverage
	}
	mid := (inner + outer) / 2
	span := (outer - inner) / 2
	if span <= 0 {
		span = 1
	}
	zoneFit := 1 - math.Abs(orbitalRadiusAU-mid)/span
	idx := models.Clamp(zoneFit*0.6+waterCoverage*0.4, 0, 1)
	return idx
}

// generateResourceAbundance draws a per-resource abundance vector biased by
// planet type — icy/giant worlds run rich in volatiles, rocky/iron worlds
// run rich in metals.
func generateResourceAbundance(rng *prng.Stream, ptype models.PlanetType) [models.ResourceCount]float64 {
	var out [models.ResourceCount]float64
	for i := range out {
		out[i] = rng.UniformUnit()
	}

	switch ptype {
	case models.PlanetIron:
		out[models.ResourceIron] = 0.6 + rng.UniformUnit()*0.4
	case models.PlanetGasGiant:
		out[models.ResourceHydrogen] = 0.7 + rng.UniformUnit()*0.3
		out[models.ResourceHelium3] = 0.5 + rng.UniformUnit()*0.5
	case models.PlanetIceGiant:
		out[models.ResourceWater] = 0.6 + rng.UniformUnit()*0.4
		out[models.ResourceHelium3] = 0.3 + rng.UniformUnit()*0.4
	case models.PlanetOcean:
		out[models.ResourceWater] = 0.8 + rng.UniformUnit()*0.2
	case models.PlanetCarbon:
		out[models.ResourceCarbon] = 0.6 + rng.UniformUnit()*0.4
	case models.PlanetDesert, models.PlanetLava:
		out[models.ResourceUranium] = models.Clamp(out[models.ResourceUranium]+0.2, 0, 1)
	}

	for i := range out {
		out[i] = models.Clamp(out[i], 0, 1)
	}
	return out
}

var artifactTypes = []models.ArtifactType{
	models.ArtifactTechBoost, models.ArtifactResourceCache,
	models.ArtifactStarMap, models.ArtifactCommAmplifier,
}

func generateArtifact(rng *prng.Stream) *models.Artifact {
	t := artifactTypes[rng.IntN(len(artifactTypes))]
	return &models.Artifact{
		Type:        t,
		Magnitude:   rng.UniformUnit(),
		Description: fmt.Sprintf("a derelict %s of unknown origin", t),
	}
}
