// File: internal/models/system.go
// Project: UNIVERSE
// Description: Procedurally generated star systems, stars, and planets.
package models

// Star is a single star within a system.
type Star struct {
	ID            UID           `json:"id"`
	Name          string        `json:"name"`
	SpectralClass SpectralClass `json:"spectral_class"`
	SolarMasses   float64       `json:"solar_masses"`
	SolarLuminosity float64     `json:"solar_luminosity"`
	TemperatureK  float64       `json:"temperature_k"`
	AgeGyr        float64       `json:"age_gyr"`
	Metallicity   float64       `json:"metallicity"`
	LocalPosition Vec3          `json:"local_position"`
}

// Artifact is an alien relic discoverable on a planet.
type Artifact struct {
	Type        ArtifactType `json:"type"`
	Magnitude   float64      `json:"magnitude"`
	Description string       `json:"description"`
	Discovered  bool         `json:"discovered"`
}

// Civilization, if present on a planet, describes native alien life.
type Civilization struct {
	Type        CivilizationType  `json:"type"`
	TechLevel   int               `json:"tech_level"` // 0-20
	Disposition Disposition       `json:"disposition"`
	BiologyBase string            `json:"biology_base"`
	State       CivilizationState `json:"state"`
	Artifacts   []string          `json:"artifacts,omitempty"`
}

// Planet is a single planetary body within a system.
type Planet struct {
	ID   UID        `json:"id"`
	Name string     `json:"name"`
	Type PlanetType `json:"type"`

	OrbitalRadiusAU float64 `json:"orbital_radius_au"`
	OrbitalPeriodDays float64 `json:"orbital_period_days"`
	Eccentricity    float64 `json:"eccentricity"` // [0,1)
	Obliquity       float64 `json:"obliquity"`
	RotationHours   float64 `json:"rotation_hours"`
	MassEarth       float64 `json:"mass_earth"`
	RadiusEarth     float64 `json:"radius_earth"`
	SurfaceTempK    float64 `json:"surface_temp_k"`
	AtmospherePressureAtm float64 `json:"atmosphere_pressure_atm"`
	WaterCoverage   float64 `json:"water_coverage"` // [0,1]
	MagneticFieldGauss float64 `json:"magnetic_field_gauss"`
	HabitabilityIndex float64 `json:"habitability_index"` // [0,1]

	ResourceAbundance [ResourceCount]float64 `json:"resource_abundance"` // [0,1]

	Surveyed [5]bool `json:"surveyed"`
	FirstSurveyedTick int64 `json:"first_surveyed_tick"`
	DiscovererID UID `json:"discoverer_id"`

	Artifact     *Artifact     `json:"artifact,omitempty"`
	Civilization *Civilization `json:"civilization,omitempty"`
}

// CanLand reports whether a probe may land on this planet type.
func (p *Planet) CanLand() bool {
	return !p.Type.IsGiant()
}

// System is a bounded collection of stars and planets at a galactic location.
type System struct {
	ID       UID      `json:"id"`
	Name     string   `json:"name"`
	Sector   Sector   `json:"sector"`
	Position Vec3     `json:"position"` // galactic position, light-years
	Stars    []Star   `json:"stars"`
	Planets  []Planet `json:"planets"`

	Visited        bool  `json:"visited"`
	FirstVisitTick int64 `json:"first_visit_tick"`

	// Society state attached to the system (claim ownership).
	ClaimedBy UID `json:"claimed_by"`
}

// PlanetByID finds a planet by UID within the system, or nil.
func (s *System) PlanetByID(id UID) *Planet {
	for i := range s.Planets {
		if s.Planets[i].ID == id {
			return &s.Planets[i]
		}
	}
	return nil
}
