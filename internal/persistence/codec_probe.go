// File: internal/persistence/codec_probe.go
// Project: UNIVERSE
// Description: Protobuf wire encoding for the full Probe aggregate —
//              identity, position, resources, capabilities, personality,
//              character, memories, goals, relationships, survey and
//              replication state.
package persistence

import "github.com/JoshuaAFerguson/universe/internal/models"

func encodePersonality(p models.Personality) []byte {
	var b []byte
	b = putFloat64(b, 1, p.Curiosity)
	b = putFloat64(b, 2, p.Caution)
	b = putFloat64(b, 3, p.Sociability)
	b = putFloat64(b, 4, p.Humor)
	b = putFloat64(b, 5, p.Empathy)
	b = putFloat64(b, 6, p.Ambition)
	b = putFloat64(b, 7, p.Creativity)
	b = putFloat64(b, 8, p.Stubbornness)
	b = putFloat64(b, 9, p.ExistentialAngst)
	b = putFloat64(b, 10, p.NostalgiaForEarth)
	b = putFloat64(b, 11, p.DriftRate)
	return b
}

func decodePersonality(data []byte) (models.Personality, error) {
	var p models.Personality
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			p.Curiosity = f.asFloat64()
		case 2:
			p.Caution = f.asFloat64()
		case 3:
			p.Sociability = f.asFloat64()
		case 4:
			p.Humor = f.asFloat64()
		case 5:
			p.Empathy = f.asFloat64()
		case 6:
			p.Ambition = f.asFloat64()
		case 7:
			p.Creativity = f.asFloat64()
		case 8:
			p.Stubbornness = f.asFloat64()
		case 9:
			p.ExistentialAngst = f.asFloat64()
		case 10:
			p.NostalgiaForEarth = f.asFloat64()
		case 11:
			p.DriftRate = f.asFloat64()
		}
		return nil
	})
	return p, err
}

func encodeEarthMemory(m models.EarthMemory) []byte {
	var b []byte
	b = putString(b, 1, m.Text)
	b = putFloat64(b, 2, m.Fidelity)
	return b
}

func decodeEarthMemory(data []byte) (models.EarthMemory, error) {
	var m models.EarthMemory
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			m.Text = f.asString()
		case 2:
			m.Fidelity = f.asFloat64()
		}
		return nil
	})
	return m, err
}

func encodeCharacter(c models.Character) []byte {
	var b []byte
	for _, q := range c.Quirks {
		b = putString(b, 1, q)
	}
	for _, cp := range c.Catchphrases {
		b = putString(b, 2, cp)
	}
	for _, v := range c.Values {
		b = putString(b, 3, v)
	}
	for _, em := range c.EarthMemories {
		b = putMessage(b, 4, encodeEarthMemory(em))
	}
	return b
}

func decodeCharacter(data []byte) (models.Character, error) {
	var c models.Character
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			c.Quirks = append(c.Quirks, f.asString())
		case 2:
			c.Catchphrases = append(c.Catchphrases, f.asString())
		case 3:
			c.Values = append(c.Values, f.asString())
		case 4:
			em, err := decodeEarthMemory(f.bytes)
			if err != nil {
				return err
			}
			c.EarthMemories = append(c.EarthMemories, em)
		}
		return nil
	})
	return c, err
}

func encodeCapabilities(c models.Capabilities) []byte {
	var b []byte
	for i, lvl := range c.TechLevels {
		b = putInt(b, protowireNumber(1+i), lvl)
	}
	const base = 1 + 32 // reserve generous headroom past TechDomainCount
	b = putFloat64(b, base, c.MiningRate)
	b = putFloat64(b, base+1, c.SensorRangeLy)
	b = putFloat64(b, base+2, c.MaxSpeedC)
	b = putFloat64(b, base+3, c.ComputeCapacity)
	return b
}

func decodeCapabilities(data []byte) (models.Capabilities, error) {
	var c models.Capabilities
	const base = 1 + 32
	err := eachField(data, func(f field) error {
		switch {
		case int(f.num) >= 1 && int(f.num) <= int(models.TechDomainCount):
			c.TechLevels[int(f.num)-1] = f.asInt()
		case f.num == base:
			c.MiningRate = f.asFloat64()
		case f.num == base+1:
			c.SensorRangeLy = f.asFloat64()
		case f.num == base+2:
			c.MaxSpeedC = f.asFloat64()
		case f.num == base+3:
			c.ComputeCapacity = f.asFloat64()
		}
		return nil
	})
	return c, err
}

func encodeMemory(m models.Memory) []byte {
	var b []byte
	b = putInt64(b, 1, m.Tick)
	b = putString(b, 2, m.Text)
	b = putFloat64(b, 3, m.EmotionalWeight)
	b = putFloat64(b, 4, m.Fading)
	return b
}

func decodeMemory(data []byte) (models.Memory, error) {
	var m models.Memory
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			m.Tick = f.asInt64()
		case 2:
			m.Text = f.asString()
		case 3:
			m.EmotionalWeight = f.asFloat64()
		case 4:
			m.Fading = f.asFloat64()
		}
		return nil
	})
	return m, err
}

func encodeGoal(g models.Goal) []byte {
	var b []byte
	b = putString(b, 1, g.Text)
	b = putBool(b, 2, g.Completed)
	return b
}

func decodeGoal(data []byte) (models.Goal, error) {
	var g models.Goal
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			g.Text = f.asString()
		case 2:
			g.Completed = f.asBool()
		}
		return nil
	})
	return g, err
}

func encodeRelationship(r *models.Relationship) []byte {
	var b []byte
	b = putMessage(b, 1, encodeUID(r.OtherID))
	b = putFloat64(b, 2, r.Trust)
	b = putString(b, 3, string(r.Disposition))
	return b
}

func decodeRelationship(data []byte) (*models.Relationship, error) {
	r := &models.Relationship{}
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			r.OtherID = id
		case 2:
			r.Trust = f.asFloat64()
		case 3:
			r.Disposition = models.Disposition(f.asString())
		}
		return nil
	})
	return r, err
}

func encodeSurveyState(s *models.SurveyState) []byte {
	var b []byte
	b = putMessage(b, 1, encodeUID(s.PlanetID))
	b = putInt(b, 2, s.Level)
	b = putInt(b, 3, s.TicksDone)
	b = putMessage(b, 4, encodeUID(s.Discoverer))
	return b
}

func decodeSurveyState(data []byte) (*models.SurveyState, error) {
	s := &models.SurveyState{}
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			s.PlanetID = id
		case 2:
			s.Level = f.asInt()
		case 3:
			s.TicksDone = f.asInt()
		case 4:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			s.Discoverer = id
		}
		return nil
	})
	return s, err
}

func encodeReplicationState(r models.ReplicationState) []byte {
	var b []byte
	b = putBool(b, 1, r.Active)
	b = putFloat64(b, 2, r.Progress)
	b = putInt(b, 3, r.Elapsed)
	b = putInt(b, 4, r.Total)
	b = putBool(b, 5, r.ConsciousnessForked)
	return b
}

func decodeReplicationState(data []byte) (models.ReplicationState, error) {
	var r models.ReplicationState
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			r.Active = f.asBool()
		case 2:
			r.Progress = f.asFloat64()
		case 3:
			r.Elapsed = f.asInt()
		case 4:
			r.Total = f.asInt()
		case 5:
			r.ConsciousnessForked = f.asBool()
		}
		return nil
	})
	return r, err
}

const (
	probeFieldResourcesBase = 17 // through 17+ResourceCount-1
)

// encodeProbe serializes the full probe aggregate. Field numbers above
// probeFieldResourcesBase+models.ResourceCount are offset to leave room for
// the resource vector, the same sparse-numbering trick used in
// encodePlanet for ResourceAbundance.
func encodeProbe(p *models.Probe) []byte {
	var b []byte
	b = putMessage(b, 1, encodeUID(p.ID))
	b = putMessage(b, 2, encodeUID(p.ParentID))
	b = putInt(b, 3, p.Generation)
	b = putString(b, 4, p.Name)
	b = putInt64(b, 5, p.CreatedTick)
	b = putString(b, 6, string(p.Status))
	b = putMessage(b, 7, encodeSector(p.Sector))
	b = putMessage(b, 8, encodeUID(p.SystemID))
	b = putMessage(b, 9, encodeUID(p.BodyID))
	b = putString(b, 10, string(p.LocationKind))
	b = putFloat64(b, 11, p.SpeedC)
	b = putMessage(b, 12, encodeVec3(p.Heading))
	b = putMessage(b, 13, encodeVec3(p.Destination))
	b = putFloat64(b, 14, p.TravelRemainingLy)
	b = putMessage(b, 15, encodeUID(p.DestSystemID))
	b = putMessage(b, 16, encodeSector(p.DestSector))

	for i, v := range p.Resources {
		b = putFloat64(b, protowireNumber(probeFieldResourcesBase+i), v)
	}

	next := probeFieldResourcesBase + int(models.ResourceCount)
	b = putFloat64(b, protowireNumber(next), p.EnergyJoules)
	b = putFloat64(b, protowireNumber(next+1), p.FuelKg)
	b = putFloat64(b, protowireNumber(next+2), p.MassKg)
	b = putFloat64(b, protowireNumber(next+3), p.HullIntegrity)
	b = putMessage(b, protowireNumber(next+4), encodeCapabilities(p.Capabilities))
	b = putMessage(b, protowireNumber(next+5), encodePersonality(p.Personality))
	b = putMessage(b, protowireNumber(next+6), encodeCharacter(p.Character))

	for _, m := range p.Memories {
		b = putMessage(b, protowireNumber(next+7), encodeMemory(m))
	}
	for _, g := range p.Goals {
		b = putMessage(b, protowireNumber(next+8), encodeGoal(g))
	}
	for _, r := range p.Relationships {
		b = putMessage(b, protowireNumber(next+9), encodeRelationship(r))
	}
	for _, s := range p.Surveys {
		b = putMessage(b, protowireNumber(next+10), encodeSurveyState(s))
	}
	b = putMessage(b, protowireNumber(next+11), encodeReplicationState(p.Replication))
	for _, e := range p.RecentEvents {
		b = putString(b, protowireNumber(next+12), e)
	}
	b = putInt(b, protowireNumber(next+13), int(p.ResearchDomain))
	b = putBool(b, protowireNumber(next+14), p.ResearchActive)
	b = putInt(b, protowireNumber(next+15), p.ResearchTicks)

	return b
}

func decodeProbe(data []byte) (*models.Probe, error) {
	p := models.NewProbe(models.ZeroUID, "")
	next := probeFieldResourcesBase + int(models.ResourceCount)

	err := eachField(data, func(f field) error {
		switch {
		case f.num == 1:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			p.ID = id
		case f.num == 2:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			p.ParentID = id
		case f.num == 3:
			p.Generation = f.asInt()
		case f.num == 4:
			p.Name = f.asString()
		case f.num == 5:
			p.CreatedTick = f.asInt64()
		case f.num == 6:
			p.Status = models.ProbeStatus(f.asString())
		case f.num == 7:
			s, err := decodeSector(f.bytes)
			if err != nil {
				return err
			}
			p.Sector = s
		case f.num == 8:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			p.SystemID = id
		case f.num == 9:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			p.BodyID = id
		case f.num == 10:
			p.LocationKind = models.LocationKind(f.asString())
		case f.num == 11:
			p.SpeedC = f.asFloat64()
		case f.num == 12:
			v, err := decodeVec3(f.bytes)
			if err != nil {
				return err
			}
			p.Heading = v
		case f.num == 13:
			v, err := decodeVec3(f.bytes)
			if err != nil {
				return err
			}
			p.Destination = v
		case f.num == 14:
			p.TravelRemainingLy = f.asFloat64()
		case f.num == 15:
			id, err := decodeUID(f.bytes)
			if err != nil {
				return err
			}
			p.DestSystemID = id
		case f.num == 16:
			s, err := decodeSector(f.bytes)
			if err != nil {
				return err
			}
			p.DestSector = s
		case int(f.num) >= probeFieldResourcesBase && int(f.num) < probeFieldResourcesBase+int(models.ResourceCount):
			p.Resources[int(f.num)-probeFieldResourcesBase] = f.asFloat64()
		case int(f.num) == next:
			p.EnergyJoules = f.asFloat64()
		case int(f.num) == next+1:
			p.FuelKg = f.asFloat64()
		case int(f.num) == next+2:
			p.MassKg = f.asFloat64()
		case int(f.num) == next+3:
			p.HullIntegrity = f.asFloat64()
		case int(f.num) == next+4:
			c, err := decodeCapabilities(f.bytes)
			if err != nil {
				return err
			}
			p.Capabilities = c
		case int(f.num) == next+5:
			pers, err := decodePersonality(f.bytes)
			if err != nil {
				return err
			}
			p.Personality = pers
		case int(f.num) == next+6:
			c, err := decodeCharacter(f.bytes)
			if err != nil {
				return err
			}
			p.Character = c
		case int(f.num) == next+7:
			m, err := decodeMemory(f.bytes)
			if err != nil {
				return err
			}
			p.Memories = append(p.Memories, m)
		case int(f.num) == next+8:
			g, err := decodeGoal(f.bytes)
			if err != nil {
				return err
			}
			p.Goals = append(p.Goals, g)
		case int(f.num) == next+9:
			r, err := decodeRelationship(f.bytes)
			if err != nil {
				return err
			}
			p.Relationships[r.OtherID] = r
		case int(f.num) == next+10:
			s, err := decodeSurveyState(f.bytes)
			if err != nil {
				return err
			}
			p.Surveys[s.PlanetID] = s
		case int(f.num) == next+11:
			r, err := decodeReplicationState(f.bytes)
			if err != nil {
				return err
			}
			p.Replication = r
		case int(f.num) == next+12:
			p.RecentEvents = append(p.RecentEvents, f.asString())
		case int(f.num) == next+13:
			p.ResearchDomain = models.TechDomain(f.asInt())
		case int(f.num) == next+14:
			p.ResearchActive = f.asBool()
		case int(f.num) == next+15:
			p.ResearchTicks = f.asInt()
		}
		return nil
	})
	return p, err
}
