// File: internal/generator/names.go
// Project: UNIVERSE
// Description: Procedural system and star naming, adapted from the
//              terminal-velocity universe generator's NameGenerator to draw
//              from a deterministic prng.Stream instead of math/rand.
package generator

import (
	"fmt"

	"github.com/JoshuaAFerguson/universe/internal/prng"
)

// nameGenerator produces names for a single sector's worth of systems. It is
// scoped to one GenerateSector call and keeps a local uniqueness registry —
// unlike the teacher's universe-wide registry, this is per-sector because
// sectors are generated independently and on demand.
type nameGenerator struct {
	rng       *prng.Stream
	usedNames map[string]bool
}

func newNameGenerator(rng *prng.Stream) *nameGenerator {
	return &nameGenerator{rng: rng, usedNames: make(map[string]bool)}
}

var greekLetters = []string{
	"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta", "Theta",
	"Iota", "Kappa", "Lambda", "Mu", "Nu", "Xi", "Omicron", "Pi",
	"Rho", "Sigma", "Tau", "Upsilon", "Phi", "Chi", "Psi", "Omega",
}

var constellations = []string{
	"Centauri", "Eridani", "Ceti", "Draconis", "Leonis", "Aquarii", "Orionis",
	"Scorpii", "Cassiopeiae", "Andromedae", "Lyrae", "Cygni", "Aquilae",
	"Ursae", "Bootis", "Virginis", "Geminorum", "Tauri", "Sagittarii",
	"Capricorni", "Piscium", "Arietis", "Cancri", "Librae", "Persei",
	"Herculis", "Ophiuchi", "Serpentis", "Coronae", "Hydrae",
}

var realStars = []string{
	"Sirius", "Canopus", "Arcturus", "Vega", "Capella", "Rigel", "Procyon",
	"Betelgeuse", "Achernar", "Altair", "Aldebaran", "Antares", "Spica",
	"Pollux", "Fomalhaut", "Deneb", "Regulus", "Adhara", "Castor", "Bellatrix",
	"Elnath", "Miaplacidus", "Alnilam", "Alnitak", "Alnair", "Alioth",
	"Dubhe", "Mirfak", "Wezen", "Sargas", "Alkaid", "Menkalinan",
	"Atria", "Alhena", "Peacock", "Alsephina", "Mirzam", "Alphard",
	"Hamal", "Polaris", "Alderamin", "Denebola",
}

var namePrefix = []string{
	"New", "Neo", "Nova", "Omega", "Proxima", "Ultima", "Prima", "Kepler",
	"Ross", "Gliese", "Wolf", "Lacaille", "Luyten", "Barnard", "Kruger",
	"Groombridge", "Lalande", "Struve", "Innes", "Stein",
}

var nameSuffix = []string{
	"Prime", "Secundus", "Tertius", "Major", "Minor", "Station", "Outpost",
	"Haven", "Refuge", "Bastion", "Forge", "Reach", "Crossing", "Gate",
	"Nexus", "Hub", "Point", "Junction", "Terminal", "Threshold",
}

// systemName generates a unique name for this sector using one of four
// strategies, retrying on collision, with a guaranteed-unique fallback.
func (ng *nameGenerator) systemName() string {
	const maxAttempts = 100

	for i := 0; i < maxAttempts; i++ {
		var name string
		switch ng.rng.IntN(4) {
		case 0:
			name = ng.greekConstellation()
		case 1:
			name = realStars[ng.rng.IntN(len(realStars))]
		case 2:
			name = ng.catalogName()
		case 3:
			name = ng.compoundName()
		}

		if !ng.usedNames[name] {
			ng.usedNames[name] = true
			return name
		}
	}

	return ng.fallbackName()
}

func (ng *nameGenerator) greekConstellation() string {
	greek := greekLetters[ng.rng.IntN(len(greekLetters))]
	constellation := constellations[ng.rng.IntN(len(constellations))]
	return fmt.Sprintf("%s %s", greek, constellation)
}

func (ng *nameGenerator) catalogName() string {
	prefix := namePrefix[ng.rng.IntN(len(namePrefix))]
	number := ng.rng.IntN(9999) + 1
	return fmt.Sprintf("%s-%d", prefix, number)
}

func (ng *nameGenerator) compoundName() string {
	prefix := namePrefix[ng.rng.IntN(len(namePrefix))]
	suffix := nameSuffix[ng.rng.IntN(len(nameSuffix))]
	return fmt.Sprintf("%s %s", prefix, suffix)
}

func (ng *nameGenerator) fallbackName() string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("System-%d", n)
		if !ng.usedNames[name] {
			ng.usedNames[name] = true
			return name
		}
	}
}

// planetName derives a planet's letter designation from its system name and
// index: "Sol B" for index 0, "Sol C" for index 1 (A is reserved for the
// star itself in the classical lettering scheme, so planets start at B).
func planetName(systemName string, index int) string {
	return fmt.Sprintf("%s %c", systemName, rune('B'+index))
}
