// File: internal/persistence/codec_system.go
// Project: UNIVERSE
// Description: Protobuf wire encoding for System/Star/Planet/Artifact/
//              Civilization and the SectorBlob they're grouped into for
//              atomic sector persistence.
package persistence

import "github.com/JoshuaAFerguson/universe/internal/models"

func encodeStar(s models.Star) []byte {
	var b []byte
	b = putMessage(b, 1, encodeUID(s.ID))
	b = putString(b, 2, s.Name)
	b = putString(b, 3, string(s.SpectralClass))
	b = putFloat64(b, 4, s.SolarMasses)
	b = putFloat64(b, 5, s.SolarLuminosity)
	b = putFloat64(b, 6, s.TemperatureK)
	b = putFloat64(b, 7, s.AgeGyr)
	b = putFloat64(b, 8, s.Metallicity)
	b = putMessage(b, 9, encodeVec3(s.LocalPosition))
	return b
}

func decodeStar(data []byte) (models.Star, error) {
	var s models.Star
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			s.ID = id
		case 2:
			s.Name = f.asString()
		case 3:
			s.SpectralClass = models.SpectralClass(f.asString())
		case 4:
			s.SolarMasses = f.asFloat64()
		case 5:
			s.SolarLuminosity = f.asFloat64()
		case 6:
			s.TemperatureK = f.asFloat64()
		case 7:
			s.AgeGyr = f.asFloat64()
		case 8:
			s.Metallicity = f.asFloat64()
		case 9:
			pos, err := decodeVec3(f.bytes)
			if err != nil {
				return err
			}
			s.LocalPosition = pos
		}
		return nil
	})
	return s, err
}

func encodeArtifact(a *models.Artifact) []byte {
	if a == nil {
		return nil
	}
	var b []byte
	b = putString(b, 1, string(a.Type))
	b = putFloat64(b, 2, a.Magnitude)
	b = putString(b, 3, a.Description)
	b = putBool(b, 4, a.Discovered)
	return b
}

func decodeArtifact(data []byte) (*models.Artifact, error) {
	a := &models.Artifact{}
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			a.Type = models.ArtifactType(f.asString())
		case 2:
			a.Magnitude = f.asFloat64()
		case 3:
			a.Description = f.asString()
		case 4:
			a.Discovered = f.asBool()
		}
		return nil
	})
	return a, err
}

func encodeCivilization(c *models.Civilization) []byte {
	if c == nil {
		return nil
	}
	var b []byte
	b = putString(b, 1, string(c.Type))
	b = putInt(b, 2, c.TechLevel)
	b = putString(b, 3, string(c.Disposition))
	b = putString(b, 4, c.BiologyBase)
	b = putString(b, 5, string(c.State))
	for _, a := range c.Artifacts {
		b = putString(b, 6, a)
	}
	return b
}

func decodeCivilization(data []byte) (*models.Civilization, error) {
	c := &models.Civilization{}
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			c.Type = models.CivilizationType(f.asString())
		case 2:
			c.TechLevel = f.asInt()
		case 3:
			c.Disposition = models.Disposition(f.asString())
		case 4:
			c.BiologyBase = f.asString()
		case 5:
			c.State = models.CivilizationState(f.asString())
		case 6:
			c.Artifacts = append(c.Artifacts, f.asString())
		}
		return nil
	})
	return c, err
}

func encodePlanet(p models.Planet) []byte {
	var b []byte
	b = putMessage(b, 1, encodeUID(p.ID))
	b = putString(b, 2, p.Name)
	b = putString(b, 3, string(p.Type))
	b = putFloat64(b, 4, p.OrbitalRadiusAU)
	b = putFloat64(b, 5, p.OrbitalPeriodDays)
	b = putFloat64(b, 6, p.Eccentricity)
	b = putFloat64(b, 7, p.Obliquity)
	b = putFloat64(b, 8, p.RotationHours)
	b = putFloat64(b, 9, p.MassEarth)
	b = putFloat64(b, 10, p.RadiusEarth)
	b = putFloat64(b, 11, p.SurfaceTempK)
	b = putFloat64(b, 12, p.AtmospherePressureAtm)
	b = putFloat64(b, 13, p.WaterCoverage)
	b = putFloat64(b, 14, p.MagneticFieldGauss)
	b = putFloat64(b, 15, p.HabitabilityIndex)
	for i, v := range p.ResourceAbundance {
		b = putFloat64(b, protowireNumber(16+i), v)
	}
	surveyedBits := uint64(0)
	for i, s := range p.Surveyed {
		if s {
			surveyedBits |= 1 << uint(i)
		}
	}
	b = putVarint(b, 30, surveyedBits)
	b = putInt64(b, 31, p.FirstSurveyedTick)
	b = putMessage(b, 32, encodeUID(p.DiscovererID))
	if p.Artifact != nil {
		b = putMessage(b, 33, encodeArtifact(p.Artifact))
	}
	if p.Civilization != nil {
		b = putMessage(b, 34, encodeCivilization(p.Civilization))
	}
	return b
}

func decodePlanet(data []byte) (models.Planet, error) {
	var p models.Planet
	err := eachField(data, func(f field) error {
		switch {
		case f.num == 1:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			p.ID = id
		case f.num == 2:
			p.Name = f.asString()
		case f.num == 3:
			p.Type = models.PlanetType(f.asString())
		case f.num == 4:
			p.OrbitalRadiusAU = f.asFloat64()
		case f.num == 5:
			p.OrbitalPeriodDays = f.asFloat64()
		case f.num == 6:
			p.Eccentricity = f.asFloat64()
		case f.num == 7:
			p.Obliquity = f.asFloat64()
		case f.num == 8:
			p.RotationHours = f.asFloat64()
		case f.num == 9:
			p.MassEarth = f.asFloat64()
		case f.num == 10:
			p.RadiusEarth = f.asFloat64()
		case f.num == 11:
			p.SurfaceTempK = f.asFloat64()
		case f.num == 12:
			p.AtmospherePressureAtm = f.asFloat64()
		case f.num == 13:
			p.WaterCoverage = f.asFloat64()
		case f.num == 14:
			p.MagneticFieldGauss = f.asFloat64()
		case f.num == 15:
			p.HabitabilityIndex = f.asFloat64()
		case int(f.num) >= 16 && int(f.num) < 16+int(models.ResourceCount):
			p.ResourceAbundance[int(f.num)-16] = f.asFloat64()
		case f.num == 30:
			for i := range p.Surveyed {
				p.Surveyed[i] = f.u64&(1<<uint(i)) != 0
			}
		case f.num == 31:
			p.FirstSurveyedTick = f.asInt64()
		case f.num == 32:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			p.DiscovererID = id
		case f.num == 33:
			a, err := decodeArtifact(f.bytes)
			if err != nil {
				return err
			}
			p.Artifact = a
		case f.num == 34:
			c, err := decodeCivilization(f.bytes)
			if err != nil {
				return err
			}
			p.Civilization = c
		}
		return nil
	})
	return p, err
}

func encodeSystem(s models.System) []byte {
	var b []byte
	b = putMessage(b, 1, encodeUID(s.ID))
	b = putString(b, 2, s.Name)
	b = putMessage(b, 3, encodeSector(s.Sector))
	b = putMessage(b, 4, encodeVec3(s.Position))
	for _, star := range s.Stars {
		b = putMessage(b, 5, encodeStar(star))
	}
	for _, p := range s.Planets {
		b = putMessage(b, 6, encodePlanet(p))
	}
	b = putBool(b, 7, s.Visited)
	b = putInt64(b, 8, s.FirstVisitTick)
	b = putMessage(b, 9, encodeUID(s.ClaimedBy))
	return b
}

func decodeSystem(data []byte) (models.System, error) {
	var s models.System
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			s.ID = id
		case 2:
			s.Name = f.asString()
		case 3:
			sec, err := decodeSector(f.bytes)
			if err != nil {
				return err
			}
			s.Sector = sec
		case 4:
			pos, err := decodeVec3(f.bytes)
			if err != nil {
				return err
			}
			s.Position = pos
		case 5:
			star, err := decodeStar(f.bytes)
			if err != nil {
				return err
			}
			s.Stars = append(s.Stars, star)
		case 6:
			p, err := decodePlanet(f.bytes)
			if err != nil {
				return err
			}
			s.Planets = append(s.Planets, p)
		case 7:
			s.Visited = f.asBool()
		case 8:
			s.FirstVisitTick = f.asInt64()
		case 9:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			s.ClaimedBy = id
		}
		return nil
	})
	return s, err
}

// encodeSectorBlob packs every system in a sector into one message, the
// unit atomically written by SaveSector.
func encodeSectorBlob(systems []models.System) []byte {
	var b []byte
	for _, sys := range systems {
		b = putMessage(b, 1, encodeSystem(sys))
	}
	return b
}

func decodeSectorBlob(data []byte) ([]models.System, error) {
	var systems []models.System
	err := eachField(data, func(f field) error {
		if f.num != 1 {
			return nil
		}
		sys, err := decodeSystem(f.bytes)
		if err != nil {
			return err
		}
		systems = append(systems, sys)
		return nil
	})
	return systems, err
}
